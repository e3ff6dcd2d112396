/*
Package onboardsdk is the Go client for the onboarding service, and the home
of the request and response types the server speaks.

# Clients

A Client without a token can only reach the public endpoints:

	c := onboardsdk.NewClient("https://onboard.example.com")

	health, err := c.GetReadiness(ctx)

	res, err := c.Register(ctx, onboardsdk.RegisterRequest{
		FullName:    "Jane Citizen",
		CompanyName: "Acme Inc",
		Email:       "jane@acme.test",
	})

Administrative calls need the caller's identity provider access token:

	admin := c.WithToken(accessToken)

	inv, err := admin.CreateInvitation(ctx, accountID, onboardsdk.CreateInvitationRequest{
		Email: "new@example.com",
		Role:  onboardsdk.RoleViewer,
	})

# Errors

Every non-2xx response becomes an *APIError carrying the stable result code
and any extra response fields:

	if onboardsdk.IsCode(err, "INVITE_ALREADY_PENDING") {
		// already invited
	}
*/
package onboardsdk
