package format

import "testing"

func TestCPF(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"12345678901", "123.456.789-01"},
		{"123.456.789-01", "123.456.789-01"},
		{"123", "123"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := CPF(tc.in); got != tc.want {
			t.Errorf("CPF(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPhone(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"11987654321", "(11) 98765-4321"},
		{"1133334444", "(11) 3333-4444"},
		{"(11) 98765-4321", "(11) 98765-4321"},
		{"123", "123"},
	}

	for _, tc := range testCases {
		if got := Phone(tc.in); got != tc.want {
			t.Errorf("Phone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidPassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "Abc12!", true},
		{"too short", "Ab1!", false},
		{"no uppercase", "abc12!", false},
		{"no digit", "Abcde!", false},
		{"no symbol", "Abc123", false},
		{"symbol outside set", "Abc12_", false},
		{"long valid", `Senha123"forte`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidPassword(tc.password); got != tc.want {
				t.Errorf("ValidPassword(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}

func TestValidPixKey(t *testing.T) {
	testCases := []struct {
		keyType string
		key     string
		want    bool
	}{
		{"CPF", "123.456.789-01", true},
		{"CPF", "123", false},
		{"CNPJ", "12.345.678/0001-95", true},
		{"CNPJ", "12345678901", false},
		{"TELEFONE", "11987654321", true},
		{"TELEFONE", "+5511987654321", true},
		{"TELEFONE", "987", false},
		{"EMAIL", "user@example.com", true},
		{"EMAIL", "not-an-email", false},
		{"ALEATORIA", "123e4567-e89b-12d3-a456-426614174000", true},
		{"ALEATORIA", "not-a-uuid", false},
		{"PASSAPORTE", "AB123456", false},
	}

	for _, tc := range testCases {
		if got := ValidPixKey(tc.keyType, tc.key); got != tc.want {
			t.Errorf("ValidPixKey(%q, %q) = %v, want %v", tc.keyType, tc.key, got, tc.want)
		}
	}
}
