/*
Package errors implements the error model shared by all custody extensions.

Reuse the root errors declared here where possible and register a custom one
only when a package needs a distinct code the client must act on, for example
x/escrow registers ErrAlreadyInitialized and ErrAddressMismatch.

Register a custom error with Register(code, description). Create instances
with ErrXyz.New/Newf or Wrap(err, "...") at the point of failure so the stack
trace points at the right place. Only the innermost wrap records a stack.

Formatting:
	%s is just the error message
	%+v is the message with the full stack trace
*/
package errors
