/*
Package tripsclient is a Go client for the FuelTrips HTTP API.

A Client performs the unauthenticated calls and hands back a Session, which
carries the bearer token for every other call:

	client := tripsclient.New("http://localhost:8080")
	session, err := client.Login(ctx, "admin@fleetlogix.com", "admin123")
	if err != nil {
		return err
	}
	page, err := session.ListTrips(ctx, tripsclient.ListOptions{Status: "InTransit"})

When the API rejects the token, Session methods return ErrSessionExpired and
the caller is expected to log in again. Any other failure reported by the API
is an *APIError.
*/
package tripsclient
