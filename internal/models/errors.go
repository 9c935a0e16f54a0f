package models

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication    = errors.New("authentication failed")
	ErrCaptchaRequired   = errors.New("captcha required")
	ErrMalformedResponse = errors.New("malformed response")
	ErrCredentialDecode  = errors.New("unable to decode credential")
	ErrTransport         = errors.New("transport failure")
	ErrDeviceOffline     = errors.New("device offline")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrTooManyResults    = errors.New("too many results")
	ErrNotLoggedIn       = errors.New("you must login first. No valid session found")
)

// AuthenticationError is returned when the cloud rejects the submitted
// credentials. It is not retryable without new input.
type AuthenticationError struct {
	Code    int
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s: %s", ErrAuthentication, e.Message)
	}
	return fmt.Sprintf("%s (code %d): %s", ErrAuthentication, e.Code, e.Message)
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// CaptchaRequiredError means the account must solve a CAPTCHA before the
// next login attempt. The code is submitted with the next login.
type CaptchaRequiredError struct {
	Code int
}

func (e *CaptchaRequiredError) Error() string {
	return "CAPTCHA hit, please login using the Hik-Connect app or supply the image code and retry"
}

func (e *CaptchaRequiredError) Is(target error) bool {
	return target == ErrCaptchaRequired
}

// MalformedResponseError is a contract violation by the server. It must
// not be retried automatically.
type MalformedResponseError struct {
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: unable to parse %q from response", ErrMalformedResponse, e.Field)
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

type CredentialDecodeError struct {
	Reason string
	Err    error
}

func (e *CredentialDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrCredentialDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrCredentialDecode, e.Reason)
}

func (e *CredentialDecodeError) Is(target error) bool {
	return target == ErrCredentialDecode
}

func (e *CredentialDecodeError) Unwrap() error {
	return e.Err
}

// TransportError carries the code and message reported by whichever layer
// failed: the HTTP status, the cloud envelope or the gateway vendor headers.
type TransportError struct {
	Code    string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if len(msg) == 0 && e.Err != nil {
		msg = e.Err.Error()
	}
	if len(e.Code) == 0 {
		return fmt.Sprintf("%s: %s", ErrTransport, msg)
	}
	return fmt.Sprintf("%s (code %s): %s", ErrTransport, e.Code, msg)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type DeviceOfflineError struct {
	DeviceSerial string
}

func (e *DeviceOfflineError) Error() string {
	if len(e.DeviceSerial) == 0 {
		return ErrDeviceOffline.Error()
	}
	return fmt.Sprintf("%s: %s", ErrDeviceOffline, e.DeviceSerial)
}

func (e *DeviceOfflineError) Is(target error) bool {
	return target == ErrDeviceOffline
}

type TooManyRedirectsError struct {
	Redirects int
	Endpoint  string
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("%s: gave up after %d redirects (last endpoint %s)",
		ErrTooManyRedirects, e.Redirects, e.Endpoint)
}

func (e *TooManyRedirectsError) Is(target error) bool {
	return target == ErrTooManyRedirects
}

// TooManyResultsError is returned by paged listings when the server still
// reports more pages after the configured page limit.
type TooManyResultsError struct {
	Fetched int
	Pages   int
}

func (e *TooManyResultsError) Error() string {
	return fmt.Sprintf("%s: stopped after %d pages (%d items) with more results pending",
		ErrTooManyResults, e.Pages, e.Fetched)
}

func (e *TooManyResultsError) Is(target error) bool {
	return target == ErrTooManyResults
}
