package version

// Current is the released version of wikis, without a "v" prefix.
const Current = "0.4.0"

// ContactURL is advertised in the user agent as required by the Wikimedia user-agent policy.
const ContactURL = "https://github.com/inevitable-commit/wikis"

// UserAgent returns the identifying user agent sent with every request.
func UserAgent() string {
	return "wikis/" + Current + " (" + ContactURL + ")"
}
