package errors

import "errors"

var (
	ErrIllegalMove    = errors.New("illegal move")
	ErrMalformedInput = errors.New("malformed input")
	ErrShapeMismatch  = errors.New("ownership shape does not match the board")
	ErrTaskNotFound   = errors.New("task not found")
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrEngineClosed   = errors.New("analysis engine is not running")
	ErrInternal       = errors.New("internal error")
)
