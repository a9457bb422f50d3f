package parser

import "github.com/TheLegendOfMataNui/lss/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BIT_OR      // |
	BIT_XOR     // #
	BIT_AND     // &
	EQUALS      // == or !=
	LESSGREATER // > or <
	SHIFT       // << or >>
	SUM         // + or -
	PRODUCT     // * or /
	POWER       // ^
	PREFIX      // -X or !X
	POSTFIX     // x++, f(x), a[i], a.b
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.OR:              LOGICAL_OR,
	token.AND:             LOGICAL_AND,
	token.PIPE:            BIT_OR,
	token.HASH:            BIT_XOR,
	token.AMPERSAND:       BIT_AND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.LT:              LESSGREATER,
	token.LT_EQUALS:       LESSGREATER,
	token.GT:              LESSGREATER,
	token.GT_EQUALS:       LESSGREATER,
	token.LT_LT:           SHIFT,
	token.GT_GT:           SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.MOD:             PRODUCT,
	token.CARET:           POWER,
	token.PLUS_PLUS:       POSTFIX,
	token.MINUS_MINUS:     POSTFIX,
	token.LPAREN:          POSTFIX,
	token.LBRACKET:        POSTFIX,
	token.PERIOD:          POSTFIX,
	token.PERIOD_DOL:      POSTFIX,
	token.COLON_COLON:     POSTFIX,
	token.COLON_COLON_DOL: POSTFIX,
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}
