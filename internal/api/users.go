package api

import (
	"context"
	"fmt"
)

// MaxEnrollImages is the backend's cap on images per enrollment request.
const MaxEnrollImages = 5

// EnrollFace submits 1-5 base64 JPEG images to enroll a user's face.
func (c *Client) EnrollFace(ctx context.Context, userID string, imagesBase64 []string) (*EnrollResponse, error) {
	if len(imagesBase64) == 0 || len(imagesBase64) > MaxEnrollImages {
		return nil, fmt.Errorf("enrollment requires 1 to %d images, got %d", MaxEnrollImages, len(imagesBase64))
	}
	body := map[string]any{"images": imagesBase64}
	return doPostJSON[EnrollResponse](ctx, c, "users/"+userID+"/enroll", body)
}
