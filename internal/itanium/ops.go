package itanium

// operatorInfo describes one entry of the fixed <operator-name> table.
type operatorInfo struct {
	name  string // spelled form, appended after "operator"
	arity int    // operand count when used in an <expression>
}

// operatorTable maps the two-character operator codes from the Itanium ABI
// grammar. cv, li, and vendor operators are handled separately.
var operatorTable = map[string]operatorInfo{
	"nw": {" new", 3},
	"na": {" new[]", 3},
	"dl": {" delete", 1},
	"da": {" delete[]", 1},
	"aw": {" co_await", 1},
	"ps": {"+", 1},
	"ng": {"-", 1},
	"ad": {"&", 1},
	"de": {"*", 1},
	"co": {"~", 1},
	"pl": {"+", 2},
	"mi": {"-", 2},
	"ml": {"*", 2},
	"dv": {"/", 2},
	"rm": {"%", 2},
	"an": {"&", 2},
	"or": {"|", 2},
	"eo": {"^", 2},
	"aS": {"=", 2},
	"pL": {"+=", 2},
	"mI": {"-=", 2},
	"mL": {"*=", 2},
	"dV": {"/=", 2},
	"rM": {"%=", 2},
	"aN": {"&=", 2},
	"oR": {"|=", 2},
	"eO": {"^=", 2},
	"ls": {"<<", 2},
	"rs": {">>", 2},
	"lS": {"<<=", 2},
	"rS": {">>=", 2},
	"eq": {"==", 2},
	"ne": {"!=", 2},
	"lt": {"<", 2},
	"gt": {">", 2},
	"le": {"<=", 2},
	"ge": {">=", 2},
	"ss": {"<=>", 2},
	"nt": {"!", 1},
	"aa": {"&&", 2},
	"oo": {"||", 2},
	"pp": {"++", 1},
	"mm": {"--", 1},
	"cm": {",", 2},
	"pm": {"->*", 2},
	"pt": {"->", 2},
	"cl": {"()", 2},
	"ix": {"[]", 2},
	"qu": {"?", 3},
}

// builtinTypes maps the single-character <builtin-type> codes.
var builtinTypes = map[byte]string{
	'v': "void",
	'w': "wchar_t",
	'b': "bool",
	'c': "char",
	'a': "signed char",
	'h': "unsigned char",
	's': "short",
	't': "unsigned short",
	'i': "int",
	'j': "unsigned int",
	'l': "long",
	'm': "unsigned long",
	'x': "long long",
	'y': "unsigned long long",
	'n': "__int128",
	'o': "unsigned __int128",
	'f': "float",
	'd': "double",
	'e': "long double",
	'g': "__float128",
	'z': "...",
}

// builtinTypesD maps the D-prefixed <builtin-type> codes.
var builtinTypesD = map[byte]string{
	'd': "decimal64",
	'e': "decimal128",
	'f': "decimal32",
	'h': "half",
	'i': "char32_t",
	's': "char16_t",
	'u': "char8_t",
	'a': "auto",
	'c': "decltype(auto)",
	'n': "decltype(nullptr)",
}
