// Package asgi defines the application-side contract of the server: the
// connection Scope, the event Message, and the Application calling
// convention every loaded application is adapted to before serving begins.
//
// Two application forms are accepted from loaded plugins: the single-callable
// [Application] and the legacy double-callable [ApplicationFactory]. [Adapt]
// bridges both (plus the [Handler] interface form) into exactly one uniform
// convention so the server never has to distinguish them.
package asgi
