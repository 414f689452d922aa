/*
Package authsdk holds the wire types of the BookWorm catalog API and a Go
client for it.

# Sessions

The service keeps sessions in two HttpOnly cookies, accessToken and
refreshToken. A Client carries a cookie jar, so a Client is a session: after
Register or Login every call made through it is authenticated.

	client, err := authsdk.NewClient("https://api.bookworm.example")
	if err != nil {
		return err
	}

	auth, err := client.Login(ctx, authsdk.LoginRequest{
		Email:    "reader@example.com",
		Password: "pw123456",
	})
	if err != nil {
		return err
	}
	fmt.Println("logged in as", auth.User.Name)

	me, err := client.LoggedIn(ctx)

Access tokens live for 50 minutes. With AutoRefresh set (the default) a
request rejected with 401 triggers one POST /refreshToken and is retried
once. Refresh tokens are single use: every refresh, login and logout
replaces both cookies and invalidates the previous pair on every device.

# Catalog

Genres and books are public to read. Creating, updating and deleting them
needs an admin session:

	genre, err := admin.AddGenre(ctx, authsdk.GenreRequest{Genre: "Fantasy", Icon: "dragon"})
	books, err := client.ListBooks(ctx, "Fantasy")

# Errors

Non-2xx responses come back as *APIError. Use StatusCode to branch on the
HTTP status:

	if authsdk.StatusCode(err) == http.StatusConflict {
		// genre already exists
	}

Every authentication failure is the same 401 body, so callers cannot tell
a missing cookie from an expired or revoked one.

# Bootstrap

A fresh deployment has no admin. When the service runs with
BOOTSTRAP_TOKEN set, Bootstrap creates the first one exactly once:

	resp, err := client.Bootstrap(ctx, token, authsdk.BootstrapRequest{
		AdminName:  "Admin",
		AdminEmail: "admin@example.com",
	})
	// resp.GeneratedPassword is set when no password was supplied.

# Thread Safety

A Client is safe for concurrent use, but the service rotates a user's
secrets on every login and refresh, so concurrent refreshes from the same
session race and only the last one survives.
*/
package authsdk
