/*
Package librarysdk provides a client SDK for the library service API.

# Overview

The package is organised around two types:

  - Client: every API call, sent through one authenticated wrapper
  - Session: login, registration, logout and the stored role

Both read and write session state through a TokenStore, which persists the
access token, the refresh token and the user's role under fixed keys.

	client := librarysdk.NewClient("http://localhost:8000/api/", store) // any TokenStore
	session := client.Session()

	if _, err := session.Login(ctx, "alice", "secret"); err != nil {
		return err
	}

	books, err := client.ListBooks(ctx)

# Token Refresh

Every Client method goes through the same wrapper, which:

 1. Attaches the stored access token as a bearer credential, if there is one
 2. On a 401, exchanges the stored refresh token at token/refresh/
 3. Stores the new access token (and a rotated refresh token, if returned)
 4. Resends the original request exactly once and returns its result

If step 2 or 3 fails, every stored session value is removed and the call
returns a *SessionExpiredError. A second 401 on the resent request is
returned as an *APIError without another refresh.

Concurrent requests that all receive a 401 share a single refresh call. A
request that was waiting on a refresh while the user logged out is not
resent; it fails with ErrSessionExpired.

Login, registration and the refresh call never go through the wrapper.

# Error Handling

The SDK returns typed errors:

  - *ValidationError: rejected client-side, nothing was sent
  - *APIError: any non-2xx response, with the server's detail and field messages
  - *SessionExpiredError: the refresh failed and the session was cleared
  - *NetworkError: no response was received

Status classes can be matched with errors.Is:

	_, err := client.AddBook(ctx, in)
	switch {
	case errors.Is(err, librarysdk.ErrSessionExpired):
		// back to the login screen
	case errors.Is(err, librarysdk.ErrForbidden):
		// not an employee
	}

UserMessage picks the text a screen should show for any of them.

# Roles

The role decides which screens are reachable. Login stores it when the
access token claims one ("role", or the "is_employee"/"is_staff" flags);
otherwise the caller can discover it and record it with Session.SetRole.
Claims are decoded without verification and are only ever a hint.

# Thread Safety

Client and Session are safe for concurrent use as long as the TokenStore is.
*/
package librarysdk
