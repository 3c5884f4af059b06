//go:build tvmdebug

package calculations

import "fmt"

// assertInvariant в отладочной сборке (-tags tvmdebug) проверяет инварианты результата
func assertInvariant(check func() error) {
	if err := check(); err != nil {
		panic(fmt.Sprintf("calculations: invariant violated: %v", err))
	}
}
