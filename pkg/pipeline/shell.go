package pipeline

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Arg is one argument of a command invocation. Literal values are escaped
// to reach the child process as a single word; Tokens are shell syntax
// (redirections, pipes) and pass through untouched.
type Arg interface {
	word() (string, error)
}

// Literal is an argument that is shell-escaped before being joined into the
// command line.
type Literal string

func (l Literal) word() (string, error) {
	return syntax.Quote(string(l), syntax.LangBash)
}

// Token is a raw piece of shell syntax. The caller is responsible for it
// being well-formed.
type Token string

func (t Token) word() (string, error) {
	return string(t), nil
}

// A redirection or pipe, optionally preceded by a single file descriptor
// digit: ">", "2>", "|", "<". Two or more digits ("10>") don't match and
// the argument is treated as a literal.
var rawTokenPattern = regexp.MustCompile(`^\s*[0-9]?[|<>]`)

// ClassifyArgs maps plain string arguments onto the typed form, marking
// redirection and pipe tokens as raw. Callers that know which arguments are
// shell syntax should construct []Arg directly instead.
func ClassifyArgs(args []string) []Arg {
	result := make([]Arg, len(args))
	for idx, arg := range args {
		if rawTokenPattern.MatchString(arg) {
			result[idx] = Token(arg)
		} else {
			result[idx] = Literal(arg)
		}
	}

	return result
}

// CommandLine assembles the shell line for the given invocation. Volatile
// env assignments ("KEY=VALUE") are prepended verbatim, the command name is
// passed through as-is and each argument contributes one word.
func CommandLine(name string, args []Arg, env []string) (string, error) {
	parts := make([]string, 0, len(env)+len(args)+1)
	parts = append(parts, env...)
	parts = append(parts, name)

	for _, arg := range args {
		word, err := arg.word()
		if err != nil {
			return "", eris.Wrapf(err, "failed to quote argument for %s", name)
		}

		parts = append(parts, word)
	}

	return strings.Join(parts, " "), nil
}

// ExecuteArgs runs the invocation synchronously through the shell
// interpreter, inheriting this process's standard streams. The child's exit
// status is the first return value; a nonzero status is not an error. Only
// OS-level launch failures produce a SpawnError.
func ExecuteArgs(ctx context.Context, name string, args []Arg, env []string) (int, error) {
	line, err := CommandLine(name, args, env)
	if err != nil {
		return -1, err
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(line), name)
	if err != nil {
		return -1, &SpawnError{Command: name, Cause: err}
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(os.Stdin, os.Stdout, os.Stderr),
	)
	if err != nil {
		return -1, &SpawnError{Command: name, Cause: err}
	}

	log(ctx).Info().
		Bool("command", true).
		Msg(line)

	err = runner.Run(ctx, file)
	if err == nil {
		return 0, nil
	}

	if status, ok := interp.IsExitStatus(err); ok {
		return int(status), nil
	}

	return -1, &SpawnError{Command: name, Cause: err}
}

// Execute is ExecuteArgs with the heuristic argument classification applied
// first.
func Execute(ctx context.Context, name string, args []string, env []string) (int, error) {
	return ExecuteArgs(ctx, name, ClassifyArgs(args), env)
}
