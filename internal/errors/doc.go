// Package errors carries the structured error type used across the tracker.
//
// Every error that crosses a package boundary is an *Error with a Code. The
// HTTP layer turns the code into a status with Code.HTTPStatus and the ops
// gRPC server uses ToGRPCError.
//
//	enc, err := repo.Get(ctx, encounters.GetInput{ID: id})
//	if err != nil {
//	    return nil, errors.Wrapf(err, "failed to load encounter %d", id)
//	}
//
// Wrap keeps the code of the wrapped error, so a NotFound raised by a
// repository is still a NotFound when it reaches the handler.
//
// Input validation goes through ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	if input.Name == "" {
//	    vb.RequiredField("name")
//	}
//	return vb.Build()
package errors
