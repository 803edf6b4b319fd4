package veil

import (
	"testing"
)

func TestEmailMasker(t *testing.T) {
	m := EmailMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"3530163057@qq.com", "353*******@qq.com"},
		{"alice@example.com", "ali**@example.com"},
		{"bob@test.org", "bob@test.org"}, // Local part too short
		{"a@b.com", "a@b.com"},
		{"@example.com", "@example.com"}, // No local part
		{"noatsign", "noatsign"},         // No @
		{"first@second@x.io", "fir**@second@x.io"},
		{"张三李四王五@例子.中国", "张三李***@例子.中国"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("EmailMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestIDCardMasker(t *testing.T) {
	m := IDCardMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"123456789012345678", "123456********5678"},
		{"12345678901", "123456*8901"},
		{"1234567890", "1234567890"}, // Ten runes, unchanged
		{"12345", "12345"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("IDCardMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestPhoneMasker(t *testing.T) {
	m := PhoneMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"12345678901", "123****8901"},
		{"12345678", "123*5678"},
		{"+8613800138000", "+86*******8000"},
		{"1234567", "1234567"}, // Seven runes, unchanged
		{"123", "123"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("PhoneMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestCardMasker(t *testing.T) {
	m := CardMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"4111111111111111", "************1111"},
		{"4111 1111 1111 1111", "**** **** **** 1111"},
		{"4111-1111-1111-1111", "****-****-****-1111"},
		{"123", "***"}, // Too short
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("CardMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestIPMasker(t *testing.T) {
	m := IPMasker()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"IPv4", "192.168.1.100", "192.168.*.*"},
		{"IPv4 private", "10.0.0.1", "10.0.*.*"},
		{"IPv4 mapped", "::ffff:172.16.5.4", "172.16.*.*"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334", "2001:0db8:85a3:0000:****:****:****:****"},
		{"IPv6 compressed", "2001:db8::1", "2001:0db8:0000:0000:****:****:****:****"},
		{"invalid", "not-an-ip", "*********"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.Mask(tt.input)
			if result != tt.expected {
				t.Errorf("IPMasker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNameMasker(t *testing.T) {
	m := NameMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"John Smith", "J*** S****"},
		{"Alice", "A****"},
		{"J", "J"},
		{"Mary Jane Watson", "M*** J*** W*****"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("NameMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestPartialMasker(t *testing.T) {
	tests := []struct {
		prefix, suffix int
		input          string
		expected       string
	}{
		{4, 4, "DE89370400440532013000", "DE89**************3000"},
		{0, 4, "secret-token", "********oken"},
		{2, 0, "abcdef", "ab****"},
		{4, 4, "short", "short"},
		{-1, 2, "abcd", "**cd"},
	}

	for _, tt := range tests {
		m := PartialMasker(tt.prefix, tt.suffix)
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("PartialMasker(%d, %d)(%q) = %q, want %q", tt.prefix, tt.suffix, tt.input, result, tt.expected)
		}
	}
}

func TestMaskerFunc(t *testing.T) {
	m := MaskerFunc(func(string) string { return "[hidden]" })
	if got := m.Mask("value"); got != "[hidden]" {
		t.Errorf("MaskerFunc.Mask() = %q, want %q", got, "[hidden]")
	}
}
