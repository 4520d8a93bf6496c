package retry

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retry executes the action until it succeeds or one of the strategies
// declines another attempt. It returns the number of attempts made along with
// the last error.
//
// Strategies run in order after every failed attempt and evaluation stops at
// the first one that declines, so strategies that sleep belong last.
func Retry(action Action, strategies ...Strategy) (attempts uint, err error) {
	for attempts = 1; ; attempts++ {
		if err = action(); err == nil {
			return attempts, nil
		}

		if !shouldRetry(strategies, attempts, err) {
			return attempts, err
		}
	}
}

func shouldRetry(strategies []Strategy, attempts uint, err error) bool {
	for _, s := range strategies {
		if !s(attempts, err) {
			return false
		}
	}
	return true
}
