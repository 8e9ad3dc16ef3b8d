// Package version reports the SDK release identity sent with every request.
package version

const number = "1.3.0"

// Version returns the SDK release number.
func Version() string {
	return number
}

// UserAgent returns the User-Agent value identifying this SDK to the API.
func UserAgent() string {
	return "stratacdn-go/" + number
}
