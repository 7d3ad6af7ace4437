package lox

func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}

// Chunk splits the collection into consecutive pieces of at most size items.
func Chunk[T any](collection []T, size int) [][]T {
	if size <= 0 {
		return nil
	}

	result := make([][]T, 0, (len(collection)+size-1)/size)

	for start := 0; start < len(collection); start += size {
		end := min(start+size, len(collection))
		result = append(result, collection[start:end])
	}

	return result
}
