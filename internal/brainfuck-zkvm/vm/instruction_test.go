package vm

import "testing"

// TestParseInstruction tests symbol-to-instruction mapping
func TestParseInstruction(t *testing.T) {
	tests := []struct {
		name     string
		symbol   byte
		expected InstructionType
	}{
		{"right", '>', Right},
		{"left", '<', Left},
		{"plus", '+', Plus},
		{"minus", '-', Minus},
		{"put char", '.', PutChar},
		{"read char", ',', ReadChar},
		{"jump if zero", '[', JumpIfZero},
		{"jump if not zero", ']', JumpIfNotZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := ParseInstruction(tt.symbol)
			if err != nil {
				t.Fatalf("ParseInstruction(%q) returned error: %v", tt.symbol, err)
			}
			if ins != tt.expected {
				t.Errorf("ParseInstruction(%q) = %v, expected %v", tt.symbol, ins, tt.expected)
			}
		})
	}
}

// TestParseInstructionInvalid tests that non-instruction symbols are rejected
func TestParseInstructionInvalid(t *testing.T) {
	for _, symbol := range []byte{'a', ' ', '\n', '0', '#'} {
		if _, err := ParseInstruction(symbol); err == nil {
			t.Errorf("ParseInstruction(%q) should have failed", symbol)
		}
		if IsInstruction(symbol) {
			t.Errorf("IsInstruction(%q) = true, expected false", symbol)
		}
	}
}

// TestInstructionPredicates tests the IsIO and IsJump classifiers
func TestInstructionPredicates(t *testing.T) {
	tests := []struct {
		ins    InstructionType
		isIO   bool
		isJump bool
	}{
		{Right, false, false},
		{Left, false, false},
		{Plus, false, false},
		{Minus, false, false},
		{PutChar, true, false},
		{ReadChar, true, false},
		{JumpIfZero, false, true},
		{JumpIfNotZero, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.ins.String(), func(t *testing.T) {
			if tt.ins.IsIO() != tt.isIO {
				t.Errorf("%v.IsIO() = %v, expected %v", tt.ins, tt.ins.IsIO(), tt.isIO)
			}
			if tt.ins.IsJump() != tt.isJump {
				t.Errorf("%v.IsJump() = %v, expected %v", tt.ins, tt.ins.IsJump(), tt.isJump)
			}
		})
	}
}

// TestInstructionString tests that instructions print as their symbols
func TestInstructionString(t *testing.T) {
	if Plus.String() != "+" {
		t.Errorf("Plus.String() = %q, expected %q", Plus.String(), "+")
	}
	if JumpIfZero.String() != "[" {
		t.Errorf("JumpIfZero.String() = %q, expected %q", JumpIfZero.String(), "[")
	}
}
