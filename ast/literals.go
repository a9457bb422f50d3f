package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/TheLegendOfMataNui/lss/internal/token"
)

// Int returns the value of an integer literal. Decimal literals must fit in a
// signed 32-bit integer. Hex literals may use all 32 bits and are read as the
// two's complement bit pattern, so 0xFFFFFFFF is -1.
func (x *Literal) Int() (int32, error) {
	if x.Token.Type != token.INT {
		return 0, fmt.Errorf("literal %q is not an integer", x.Token.Literal)
	}
	text := x.Token.Literal
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		v, err := strconv.ParseUint(text[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("integer literal %s is out of range", text)
		}
		return int32(uint32(v)), nil
	}
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("integer literal %s is out of range", text)
	}
	return int32(v), nil
}

// Float returns the value of a float literal, ignoring any "f" suffix.
func (x *Literal) Float() (float32, error) {
	if x.Token.Type != token.FLOAT {
		return 0, fmt.Errorf("literal %q is not a float", x.Token.Literal)
	}
	text := strings.TrimRight(x.Token.Literal, "fF")
	v, err := strconv.ParseFloat(text, 32)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("float literal %s is out of range", x.Token.Literal)
	}
	return float32(v), nil
}

// Str returns the value of a string literal with the surrounding quotes
// removed and escape sequences resolved.
func (x *Literal) Str() string {
	text := x.Token.Literal
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return Unescape(text)
}

// Unescape resolves the escape sequences \" \\ \n \t and \r. Any other
// backslash sequence is kept as written.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
