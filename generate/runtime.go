package generate

import "garnet/ir"

// entryHeader is the signature of the function evaluating the program.
const entryHeader = "NatObject *EVAL(NatEnv *env, NatObject *self)"

// fnParams gives the parameter list of each kind of synthesized function.
// Class, module and singleton class bodies take the reduced form.
var fnParams = map[ir.Kind]string{
	ir.KDefFn:   "NatEnv *env, NatObject *self, size_t argc, NatObject **args, struct hashmap *kwargs, NatBlock *block",
	ir.KBlockFn: "NatEnv *env, NatObject *self, size_t argc, NatObject **args, struct hashmap *kwargs, NatBlock *block",
	ir.KBeginFn: "NatEnv *env, NatObject *self, size_t argc, NatObject **args, struct hashmap *kwargs, NatBlock *block",
	ir.KBodyFn:  "NatEnv *env, NatObject *self",
}

// voidFunctions is the set of runtime entry points that return nothing.  Calls
// to them are emitted as statements.  Every other entry point returns an
// object which is captured in a fresh temporary.
var voidFunctions = map[string]struct{}{
	"NAT_ASSERT_ARGC":              {},
	"global_set":                   {},
	"nat_alias":                    {},
	"nat_arg_set":                  {},
	"nat_array_push":               {},
	"nat_array_push_splat":         {},
	"nat_define_method":            {},
	"nat_define_singleton_method":  {},
	"nat_env_set_method_name":      {},
	"nat_flag_break":               {},
	"nat_hash_put":                 {},
	"nat_raise_exception":          {},
	"nat_raise_local_jump_error":   {},
	"nat_string_append":            {},
	"nat_string_append_nat_string": {},
	"nat_var_declare":              {},
}

// IsVoid returns whether the runtime entry point named fn returns nothing.
func IsVoid(fn string) bool {
	_, ok := voidFunctions[fn]
	return ok
}

// Runtime text used by the emitted control constructs.
const (
	rescueGuard   = "!NAT_RESCUE(env)"
	setLastError  = `global_set(env, "$!", env->exception);`
	clearJumpBuf  = "env->jump_buf = NULL;"
	runBlockMacro = "NAT_RUN_BLOCK_AND_POSSIBLY_BREAK"
)
