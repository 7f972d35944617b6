package collectionutils

// Map applies f to every item and returns the results in order.
func Map[T any, R any](items []T, f func(T) R) []R {
	result := make([]R, len(items))
	for i, item := range items {
		result[i] = f(item)
	}
	return result
}

// Associate indexes items by the key/value pair produced by transform.
// Later items win on duplicate keys.
func Associate[T any, K comparable, V any](items []T, transform func(T) (K, V)) map[K]V {
	m := make(map[K]V, len(items))
	for _, item := range items {
		k, v := transform(item)
		m[k] = v
	}
	return m
}

func GetOrDefault[K comparable, T any](m map[K]T, key K, defaultValue T) T {
	if v, ok := m[key]; ok {
		return v
	}
	return defaultValue
}
