// Package rest adds typed JSON helpers on top of httpclient.
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"})
//
//	user, err := rest.Get[User](ctx, client, "/users/123")
//	created, err := rest.Post[User](ctx, client, "/users", CreateUserRequest{Name: "Alice"})
//
// Failures are the *httpclient.Error values of the underlying call; when
// the server answered with a rejected status, the error body is still
// decoded into the returned Result when it is valid JSON for T.
package rest
