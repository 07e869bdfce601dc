// Utilities for importing a browser session from a "copy as cURL" snippet.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// SessionHeaders represents headers and cookies parsed from a cURL command.
// Admins can copy a request from the browser devtools of a logged-in CMS
// session and reuse it for API access without a separate token.
type SessionHeaders struct {
	Headers map[string]string
	Cookie  string
}

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*SessionHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers and the
// session cookie, whether given via -b or a Cookie header.
func ParseCurlCommand(data []byte) (*SessionHeaders, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	for _, match := range curlHeaderRe.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if strings.EqualFold(key, "cookie") {
			if cookie == "" {
				cookie = value
			}
			continue
		}
		headers[key] = value
	}

	if m := curlCookieRe.FindStringSubmatch(curlCmd); len(m) > 1 {
		if m[1] != "" {
			cookie = m[1]
		} else if m[2] != "" {
			cookie = m[2]
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &SessionHeaders{
		Headers: headers,
		Cookie:  cookie,
	}, nil
}

// Apply copies the parsed session headers onto an outgoing request header set.
func (s *SessionHeaders) Apply(h http.Header) {
	for key, value := range s.Headers {
		h.Set(key, value)
	}
	if s.Cookie != "" {
		h.Set("Cookie", s.Cookie)
	}
}
