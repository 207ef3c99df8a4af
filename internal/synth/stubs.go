package synth

import (
	"path/filepath"
	"strings"
)

// AddStubs emits compile targets for every stub source and binds the
// resulting objects to the STUB_OBJECT_FILES variable referenced by library
// link steps. Header stubs carry no code and are skipped.
func (s *Synthesizer) AddStubs(stubs []string) error {
	var objects []string
	for _, stub := range stubs {
		if isHeader(stub) {
			continue
		}
		source := s.ctx.StubToSource(stub)
		unit, err := s.db.ObjectUnit(source)
		if err != nil {
			return err
		}
		target := s.ctx.RecompiledFile(stub)
		s.addCompileTarget(stub, target, unit)
		objects = append(objects, s.rel(target))
	}
	s.printer.DeclareVariable(stubObjectFilesName, strings.Join(objects, " "))
	return nil
}

func isHeader(path string) bool {
	switch filepath.Ext(path) {
	case ".h", ".hpp", ".hh", ".hxx":
		return true
	}
	return false
}
