package utils

import "strings"

func Noop(...any) {}

func Map[T, R any](a []T, clb func(T) R) (out []R) {
	for _, el := range a {
		out = append(out, clb(el))
	}
	return
}

func MapJoin[T any](a []T, clb func(T) string, sep string) string {
	return strings.Join(Map(a, clb), sep)
}
