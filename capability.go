package veil

// builtinMaskTypes contains the mask types every MaskerRegistry starts with.
var builtinMaskTypes = map[MaskType]MaskerFactory{
	MaskEmail:   func() (Masker, error) { return EmailMasker(), nil },
	MaskIDCard:  func() (Masker, error) { return IDCardMasker(), nil },
	MaskPhone:   func() (Masker, error) { return PhoneMasker(), nil },
	MaskCard:    func() (Masker, error) { return CardMasker(), nil },
	MaskIP:      func() (Masker, error) { return IPMasker(), nil },
	MaskName:    func() (Masker, error) { return NameMasker(), nil },
	MaskSHA256:  func() (Masker, error) { return SHA256Masker(), nil },
	MaskBlake2b: func() (Masker, error) { return Blake2bMasker(), nil },
}

// validDirections contains the directions a Rule may carry.
var validDirections = map[Direction]bool{
	Include: true,
	Exclude: true,
}

// IsBuiltinMaskType reports whether mt is registered by default.
func IsBuiltinMaskType(mt MaskType) bool {
	_, ok := builtinMaskTypes[mt]
	return ok
}

// IsValidDirection reports whether d is Include or Exclude.
func IsValidDirection(d Direction) bool {
	return validDirections[d]
}
