package domain

// TwoFactorSetup is returned when enrollment starts. It deliberately carries
// no standalone secret field: the authenticator app reads the secret from the
// provisioning URI or QR code, and nothing else should.
type TwoFactorSetup struct {
	URI    string // otpauth:// key URI
	QRCode string // data:image/png;base64 rendering of the URI
}
