package object

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("object")

// Contract-violation taxonomy. These indicate a registration-time or caller
// bug, not a recoverable runtime condition; functions that detect one panic
// with an error wrapping the matching sentinel.
var (
	ErrNotFound           = errors.New("type not found")
	ErrUnnamedType        = errors.New("type registered without a name")
	ErrMalformedHierarchy = errors.New("malformed type hierarchy")
	ErrAbstractType       = errors.New("cannot instantiate abstract type")
	ErrBadCast            = errors.New("object is not an instance of target type")
	ErrUninitialized      = errors.New("object has no initialized class")
)

// fatalf reports a contract violation and aborts by panicking with an error
// wrapping sentinel.
func fatalf(sentinel error, format string, args ...any) {
	err := fmt.Errorf(format+": %w", append(args, sentinel)...)
	log.Critical(err.Error())
	panic(err)
}
