package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidLocator is returned when a locator cannot be built safely.
var ErrInvalidLocator = errors.New("invalid resource locator")

var (
	accountRegex = regexp.MustCompile(`^[0-9]{12}$`)
	regionRegex  = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
)

// ChannelARN returns the locator of an IoT Analytics channel.
func ChannelARN(region, account, channel string) (string, error) {
	if !regionRegex.MatchString(region) {
		return "", fmt.Errorf("%w: region %q", ErrInvalidLocator, region)
	}
	if !accountRegex.MatchString(account) {
		return "", fmt.Errorf("%w: account %q must be 12 digits", ErrInvalidLocator, account)
	}
	if channel == "" {
		return "", fmt.Errorf("%w: empty channel name", ErrInvalidLocator)
	}
	if strings.ContainsAny(channel, "*?:/ ") {
		return "", fmt.Errorf("%w: channel %q contains a reserved character", ErrInvalidLocator, channel)
	}
	return fmt.Sprintf("arn:aws:iotanalytics:%s:%s:channel/%s", region, account, channel), nil
}

// TopicRuleARN returns the locator of an IoT topic rule.
func TopicRuleARN(region, account, rule string) string {
	return fmt.Sprintf("arn:aws:iot:%s:%s:rule/%s", region, account, rule)
}

// ChannelFromARN returns the channel name of a locator built by ChannelARN.
func ChannelFromARN(arn string) (string, error) {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" || parts[2] != "iotanalytics" {
		return "", fmt.Errorf("%w: %q is not an analytics locator", ErrInvalidLocator, arn)
	}
	channel, ok := strings.CutPrefix(parts[5], "channel/")
	if !ok {
		return "", fmt.Errorf("%w: %q is not a channel locator", ErrInvalidLocator, arn)
	}
	rebuilt, err := ChannelARN(parts[3], parts[4], channel)
	if err != nil {
		return "", err
	}
	if rebuilt != arn {
		return "", fmt.Errorf("%w: %q is not a channel locator", ErrInvalidLocator, arn)
	}
	return channel, nil
}
