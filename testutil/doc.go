// Package testutil provides test servers and lifecycle helpers for
// exercising HTTP clients.
//
//	func TestGet(t *testing.T) {
//	    srv := testutil.NewEchoServer()
//	    testutil.T(t).Setup(srv)
//
//	    resp, err := httpclient.Get(ctx, srv.URL()+"/echo/users")
//	    // ...
//	}
//
// EchoServer records every request it receives; Reset clears them between
// subtests.
package testutil
