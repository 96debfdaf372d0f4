// Package totp implements RFC 4226 (HOTP) and RFC 6238 (TOTP) one-time codes
// for the vault: code generation and verification against an injectable
// clock, secret generation, and the otpauth:// provisioning URI consumed by
// authenticator apps.
//
// Every operation reports malformed input through an explicit error. A bad
// secret yields [ErrInvalidSecret], never a placeholder code.
//
//	engine := totp.NewEngine(clock.System())
//	secret, _ := totp.GenerateSecret()
//	code, _ := engine.Now(secret, totp.Params{})
//	ok, _ := engine.Verify(secret, code, totp.Params{}, 1)
//
// The package is free of storage concerns. Encrypting secrets at rest is the
// vault's job.
package totp
