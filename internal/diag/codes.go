package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические: лексер сам их не выдаёт, их поднимает парсер
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectItem        Code = 2003
	SynExpectName        Code = 2004
	SynExpectParamName   Code = 2005
	SynExpectGenericName Code = 2006
	SynExtraTokens       Code = 2007
	SynExpectType        Code = 2008
	SynExpectParams      Code = 2009
	SynExpectBody        Code = 2010

	// Семантические (валидация)
	SemaInfo             Code = 3000
	SemaDuplicateItem    Code = 3001
	SemaDuplicateParam   Code = 3002
	SemaDuplicateGeneric Code = 3003
	SemaNonNormalIdent   Code = 3004

	// Ввод-вывод
	IOLoadFileError Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexUnknownChar:        "Unknown character",
		LexUnterminatedString: "Unterminated string literal",

		SynInfo:              "Syntax information",
		SynUnexpectedToken:   "Unexpected token",
		SynUnclosedDelimiter: "Unclosed delimiter",
		SynExpectItem:        "Expected an item",
		SynExpectName:        "Expected a name",
		SynExpectParamName:   "Expected parameter name",
		SynExpectGenericName: "Expected generic parameter name",
		SynExtraTokens:       "Extra tokens",
		SynExpectType:        "Expected a type",
		SynExpectParams:      "Expected parameter list",
		SynExpectBody:        "Expected a body",

		SemaInfo:             "Semantic information",
		SemaDuplicateItem:    "Duplicate item",
		SemaDuplicateParam:   "Duplicate parameter",
		SemaDuplicateGeneric: "Duplicate generic parameter",
		SemaNonNormalIdent:   "Identifier is not in NFC form",

		IOLoadFileError: "I/O error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
