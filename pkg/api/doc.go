// Package api defines the error taxonomy shared by the litedemo packages.
//
// Every failure that crosses a package boundary (provider calls, stream
// iteration, model listing) is reported as an [APIError] carrying an
// [ErrorType]. Callers that only need "did the call fail" can treat it as a
// plain error; callers that care about the category can use [AsAPIError].
package api
