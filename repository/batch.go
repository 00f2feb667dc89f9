package repository

import "strings"

// keyBatchSize bounds IN-filter key lists; the hosted backend caps filter
// sizes around this mark.
const keyBatchSize = 50

// normalizeAll trims and uppercases gr numbers so lookups match the
// normalized form settlements store.
func normalizeAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToUpper(strings.TrimSpace(k))
	}
	return out
}

func chunkStrings(keys []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[start:end])
	}
	return chunks
}

func chunkInt64s(keys []int64, size int) [][]int64 {
	var chunks [][]int64
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[start:end])
	}
	return chunks
}
