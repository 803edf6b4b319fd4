package veil

import (
	"net/netip"
	"strconv"
	"strings"
	"unicode"
)

// MaskType identifies a masker in a MaskerRegistry.
type MaskType string

const (
	MaskEmail   MaskType = "email"   // 3530163057@qq.com -> 353*******@qq.com
	MaskIDCard  MaskType = "id_card" // 123456789012345678 -> 123456********5678
	MaskPhone   MaskType = "phone"   // 12345678901 -> 123****8901
	MaskCard    MaskType = "card"    // 4111 1111 1111 1111 -> **** **** **** 1111
	MaskIP      MaskType = "ip"      // 192.168.1.100 -> 192.168.*.*
	MaskName    MaskType = "name"    // John Smith -> J*** S****
	MaskSHA256  MaskType = "sha256"  // hex SHA-256 fingerprint
	MaskBlake2b MaskType = "blake2b" // hex BLAKE2b-256 fingerprint
)

// maskRune replaces hidden characters.
const maskRune = '*'

// Masker rewrites a string into its masked form.
// Implementations must be safe for concurrent use.
type Masker interface {
	// Mask applies masking to the value.
	Mask(value string) string
}

// MaskerFunc adapts a function to the Masker interface.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

// partialMasker hides everything between a kept prefix and a kept suffix.
type partialMasker struct {
	prefix int
	suffix int
}

// PartialMasker returns a masker that keeps the first prefix and last suffix
// runes and replaces the runes between them. Values too short to hide
// anything are returned unchanged.
func PartialMasker(prefix, suffix int) Masker {
	return &partialMasker{prefix: max(prefix, 0), suffix: max(suffix, 0)}
}

func (m *partialMasker) Mask(value string) string {
	return hideMiddle(value, m.prefix, m.suffix)
}

// hideMiddle keeps prefix and suffix runes of value and masks the rest.
func hideMiddle(value string, prefix, suffix int) string {
	runes := []rune(value)
	if len(runes) <= prefix+suffix {
		return value
	}
	for i := prefix; i < len(runes)-suffix; i++ {
		runes[i] = maskRune
	}
	return string(runes)
}

// emailMasker keeps the first three runes of the local part and the domain.
type emailMasker struct{}

// EmailMasker returns a masker for email addresses.
// Local parts of three runes or fewer, and values without a local part,
// are returned unchanged.
func EmailMasker() Masker {
	return &emailMasker{}
}

func (m *emailMasker) Mask(value string) string {
	at := strings.IndexByte(value, '@')
	if at <= 0 {
		return value
	}
	return hideMiddle(value[:at], 3, 0) + value[at:]
}

// IDCardMasker returns a masker for national ID numbers.
// Keeps the first six and last four runes; values of ten runes or fewer
// are returned unchanged.
func IDCardMasker() Masker {
	return PartialMasker(6, 4)
}

// PhoneMasker returns a masker for phone numbers.
// Keeps the first three and last four runes; values of seven runes or fewer
// are returned unchanged.
func PhoneMasker() Masker {
	return PartialMasker(3, 4)
}

// cardMasker masks every digit but the last four, keeping separators.
type cardMasker struct{}

// CardMasker returns a masker for payment card numbers.
// Values with fewer than four digits are fully masked.
func CardMasker() Masker {
	return &cardMasker{}
}

func (m *cardMasker) Mask(value string) string {
	runes := []rune(value)
	digits := 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 4 {
		return strings.Repeat(string(maskRune), len(runes))
	}

	hide := digits - 4
	for i, r := range runes {
		if hide == 0 {
			break
		}
		if unicode.IsDigit(r) {
			runes[i] = maskRune
			hide--
		}
	}
	return string(runes)
}

// ipMasker keeps the network part of an address.
type ipMasker struct{}

// IPMasker returns a masker for IP addresses.
// IPv4 keeps the first two octets, IPv6 keeps the first four groups.
// Unparseable values are fully masked.
func IPMasker() Masker {
	return &ipMasker{}
}

func (m *ipMasker) Mask(value string) string {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return strings.Repeat(string(maskRune), len([]rune(value)))
	}
	if addr.Is4() || addr.Is4In6() {
		octets := addr.Unmap().As4()
		return strconv.Itoa(int(octets[0])) + "." + strconv.Itoa(int(octets[1])) + ".*.*"
	}
	groups := strings.Split(addr.WithZone("").StringExpanded(), ":")
	return strings.Join(groups[:4], ":") + ":****:****:****:****"
}

// nameMasker keeps the first rune of each word.
type nameMasker struct{}

// NameMasker returns a masker for personal names.
func NameMasker() Masker {
	return &nameMasker{}
}

func (m *nameMasker) Mask(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		words[i] = hideMiddle(word, 1, 0)
	}
	return strings.Join(words, " ")
}
