package util

func ReverseG[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
