package api

import "context"

// Login authenticates a user with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	return doPostJSONUnauth[LoginResponse](ctx, c, "auth/login", body)
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return doPostJSONUnauth[RefreshResponse](ctx, c, "auth/refresh", body)
}

// RevokeRefreshToken revokes a refresh token during logout.
func (c *Client) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return doPostNoContent(ctx, c, "auth/logout", body)
}

// DeviceLogin authenticates a kiosk device with its ID and secret.
func (c *Client) DeviceLogin(ctx context.Context, deviceID, deviceSecret string) (*DeviceLoginResponse, error) {
	body := map[string]string{
		"device_id":     deviceID,
		"device_secret": deviceSecret,
	}
	return doPostJSONUnauth[DeviceLoginResponse](ctx, c, "auth/device", body)
}
