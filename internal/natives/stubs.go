package natives

import (
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/values"
)

// stubModuleNames lists every native module documented only by narrative
// contract in the source corpus (audio, graphics, windowing, input,
// physics, fonts, immediate-mode UI, and filesystem helpers beyond
// FileRead/FileWrite). These are external collaborators: this runtime
// registers their names so NativeCall/
// ExternCall dispatch against them resolves to a module at all, but every
// function call answers NativeError("unimplemented") rather than guessing
// at a contract this package doesn't own.
var stubModuleNames = []string{"audio", "graphics", "window", "input", "physics", "font", "ui", "fs"}

func stubModule(name string) *Module {
	moduleName := name
	return &Module{
		Name:    moduleName,
		Entries: map[string]Entry{},
		Fallback: func(args []values.Value) (values.Value, error) {
			return nil, faults.New(faults.NativeError, "%s is an external collaborator with no in-process implementation: unimplemented", moduleName)
		},
	}
}
