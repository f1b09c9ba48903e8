package domain

import "sort"

// FavoriteSet maps canonical route keys to membership. An absent key is not a favorite.
type FavoriteSet map[string]bool

// Keys returns the member keys in lexical order.
func (s FavoriteSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k, v := range s {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of members.
func (s FavoriteSet) Count() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}
