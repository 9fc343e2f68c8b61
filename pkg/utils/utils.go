package utils

// TryEnqueue delivers item if the channel has room and drops it
// otherwise. Progress consumers that fall behind lose events; the
// producer never blocks.
func TryEnqueue[T any](ch chan<- T, item T) bool {
	select {
	case ch <- item:
		return true
	default:
		return false
	}
}
