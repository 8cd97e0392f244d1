package display

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseSelection interprets the deletion prompt answer for a table of n
// entries. Accepted forms: "none"/"n" (or empty) for nothing,
// "all"/"a"/"yes"/"y" for everything, or a comma-separated mix of
// 1-based IDs and inclusive ranges ("1,3-5,8"). Out-of-range IDs are
// ignored; malformed tokens fail the whole selection. The result is
// sorted, duplicate-free, 0-based.
func ParseSelection(input string, n int) ([]int, error) {
	choice := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(input), " ", ""))

	switch choice {
	case "", "none", "n":
		return nil, nil
	case "all", "a", "yes", "y":
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	picked := make(map[int]struct{})
	for _, part := range strings.Split(choice, ",") {
		if part == "" {
			return nil, fmt.Errorf("empty selection token")
		}
		if start, end, ok := strings.Cut(part, "-"); ok {
			lo, err := strconv.Atoi(start)
			if err != nil {
				return nil, fmt.Errorf("invalid range start %q", start)
			}
			hi, err := strconv.Atoi(end)
			if err != nil {
				return nil, fmt.Errorf("invalid range end %q", end)
			}
			for i := lo; i <= hi; i++ {
				if i >= 1 && i <= n {
					picked[i-1] = struct{}{}
				}
			}
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q", part)
		}
		if id >= 1 && id <= n {
			picked[id-1] = struct{}{}
		}
	}

	out := make([]int, 0, len(picked))
	for i := range picked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}
