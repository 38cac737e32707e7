package attestation

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	valueHexPattern     = regexp.MustCompile(`^(0x|0X)?[a-fA-F0-9]{1,64}$`)
	hexDigitsPattern    = regexp.MustCompile(`^[a-fA-F0-9]*$`)
	leadingZeroNibbles  = regexp.MustCompile(`^(0x|0X)0+`)
	decimalDigitPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateTopic checks the length and character set of a claim topic.
func ValidateTopic(topic string) error {
	if utf8.RuneCountInString(topic) > MaxTopicLength {
		return newValidationError("topic", topic, topicLengthMessage)
	}
	for index := 0; index < len(topic); index++ {
		character := topic[index]
		if character < 0x20 || character > 0x7F {
			return newValidationError("topic", topic, topicASCIIMessage)
		}
	}
	return nil
}

// EncodeTopic validates topic and returns its ASCII bytes as 0x-prefixed
// lowercase hex.
func EncodeTopic(topic string) (string, error) {
	if err := ValidateTopic(topic); err != nil {
		return "", err
	}
	return StringToHex(topic), nil
}

// EncodeValue accepts a hex string or a byte slice and returns the
// 0x-prefixed hex the ledger expects. Digits are passed through without
// padding or case changes.
func EncodeValue(value any) (string, error) {
	var valueHex string
	switch typed := value.(type) {
	case string:
		valueHex = typed
	case []byte:
		valueHex = BytesToHex(typed)
	default:
		return "", newValidationError("value", fmt.Sprintf("%T", value), valueErrorMessage)
	}

	if !valueHexPattern.MatchString(valueHex) {
		return "", newValidationError("value", valueHex, valueErrorMessage)
	}
	if hasHexPrefix(valueHex) {
		return HexPrefix + valueHex[len(HexPrefix):], nil
	}
	return HexPrefix + valueHex, nil
}

// DecodeStoredHex turns a stored ledger value into a StoredValue.
func DecodeStoredHex(raw string) (StoredValue, error) {
	stripped := StripLeadingZeroNibbles(raw)
	digits := stripped
	if hasHexPrefix(digits) {
		digits = digits[len(HexPrefix):]
	}
	if !hexDigitsPattern.MatchString(digits) {
		return StoredValue{}, newValidationError("stored value", raw, "stored value must be a hex string")
	}
	return StoredValue{hex: stripped}, nil
}

// DecodeNumericTopic renders a topic that was stored as a number back into
// text. It accepts hex strings ("0x..."), decimal strings, integers,
// *big.Int and byte slices.
func DecodeNumericTopic(raw any) (string, error) {
	var number *big.Int

	switch typed := raw.(type) {
	case string:
		parsed, err := parseNumericString(typed)
		if err != nil {
			return "", err
		}
		number = parsed
	case []byte:
		number = new(big.Int).SetBytes(typed)
	case *big.Int:
		if typed == nil {
			return "", nil
		}
		number = typed
	case int:
		number = big.NewInt(int64(typed))
	case int32:
		number = big.NewInt(int64(typed))
	case int64:
		number = big.NewInt(typed)
	case uint:
		number = new(big.Int).SetUint64(uint64(typed))
	case uint32:
		number = new(big.Int).SetUint64(uint64(typed))
	case uint64:
		number = new(big.Int).SetUint64(typed)
	default:
		return "", newValidationError("topic", fmt.Sprintf("%T", raw), "topic must be a numeric value or string")
	}

	if number.Sign() < 0 {
		return "", newValidationError("topic", number.String(), "topic cannot be negative")
	}
	return strings.ToValidUTF8(string(number.Bytes()), "\uFFFD"), nil
}

func parseNumericString(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return new(big.Int), nil
	}

	if hasHexPrefix(trimmed) {
		digits := StripLeadingZeroNibbles(trimmed)[len(HexPrefix):]
		if digits == "" {
			return new(big.Int), nil
		}
		number, ok := new(big.Int).SetString(digits, 16)
		if !ok {
			return nil, newValidationError("topic", raw, "topic must be a hex string")
		}
		return number, nil
	}

	if !decimalDigitPattern.MatchString(trimmed) {
		return nil, newValidationError("topic", raw, "topic must be a hex or decimal string")
	}
	number, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, newValidationError("topic", raw, "topic must be a hex or decimal string")
	}
	return number, nil
}

// StringToHex returns the 0x-prefixed lowercase hex of the string's bytes.
func StringToHex(value string) string {
	return BytesToHex([]byte(value))
}

// BytesToHex returns the 0x-prefixed lowercase hex of value.
func BytesToHex(value []byte) string {
	return HexPrefix + hex.EncodeToString(value)
}

// StripLeadingZeroNibbles collapses "0x0003" to "0x3". Strings without a
// 0x or 0X prefix are returned unchanged.
func StripLeadingZeroNibbles(hexString string) string {
	return leadingZeroNibbles.ReplaceAllString(hexString, HexPrefix)
}

// PadToWidth left-pads the hex digits of hexString with zeros to width
// digits. A 0x prefix is kept when present and never added.
func PadToWidth(hexString string, width int) string {
	hasPrefix := hasHexPrefix(hexString)
	digits := hexString
	if hasPrefix {
		digits = hexString[len(HexPrefix):]
	}
	if len(digits) < width {
		digits = strings.Repeat("0", width-len(digits)) + digits
	}
	if hasPrefix {
		return HexPrefix + digits
	}
	return digits
}
