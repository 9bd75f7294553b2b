package parser

// Grammar selects between the flat and nested rule sets.
type Grammar struct {
	// Name is used in diagnostics and String.
	Name string
	// Saveframes allows save_ frames directly in the data block; loops
	// and free tags then live only inside saveframes.
	Saveframes bool
	// TerminatorsRequired makes end of input inside an open loop or
	// saveframe an error.
	TerminatorsRequired bool
	// SynthesizeTerminators closes a loop when a tag or loop_ follows its
	// values without stop_.
	SynthesizeTerminators bool
}

var (
	// CIF is the flat mmCIF/NMR-IF grammar: tags and loops sit directly
	// in the single data block and stop_ is optional.
	CIF = Grammar{
		Name:                  "CIF",
		SynthesizeTerminators: true,
	}

	// STAR is the nested NMR-STAR grammar: the data block holds only
	// saveframes, and save_ and stop_ are mandatory.
	STAR = Grammar{
		Name:                "STAR",
		Saveframes:          true,
		TerminatorsRequired: true,
	}
)

// String returns the grammar name.
func (g Grammar) String() string {
	if g.Name == "" {
		return "custom"
	}
	return g.Name
}

// body is the state tags and loops live in.
func (g Grammar) body() state {
	if g.Saveframes {
		return inSaveframe
	}
	return inDataBlock
}
