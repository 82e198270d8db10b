package cmd

import "strings"

// formatCLIError trims the request plumbing the AWS SDK embeds in errors,
// keeping the failed operation and the service's own message.
func formatCLIError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimRight(err.Error(), "\n")
	// The SDK formats remote failures as:
	// operation error <Service>: <Op>, https response error StatusCode: <n>,
	// RequestID: <id>, api error <Code>: <message>
	if i := strings.Index(msg, ", https response error"); i != -1 {
		if j := strings.Index(msg, "api error "); j != -1 {
			return msg[:i] + ": " + msg[j:]
		}
		return msg[:i]
	}
	return msg
}
