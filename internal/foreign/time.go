package foreign

import (
	"lox/internal/object"
	"time"
)

// Clock returns seconds since the Unix epoch as a float.
func Clock() *object.Native {
	return &object.Native{
		FnName:     "clock",
		ParamCount: 0,
		Fn: func(args ...object.Object) (object.Object, error) {
			return &object.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}, nil
		},
	}
}
