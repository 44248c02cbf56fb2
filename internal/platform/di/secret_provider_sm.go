// internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// fetchSecretSM reads one secret version from Secret Manager. Used at boot
// for the SendGrid API key when SENDGRID_API_KEY is not set directly.
// name is a full resource name ("projects/<p>/secrets/<s>/versions/latest").
func fetchSecretSM(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("di: secret name is empty")
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", errors.New("di: secretmanager client init failed: " + err.Error())
	}
	defer sm.Close()

	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("di: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("di: empty secret payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
