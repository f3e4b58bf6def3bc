package nvapi

// QueryFunc is nvapi_QueryInterface: it returns the address of the driver
// function for id, or 0 when the running driver does not provide it.
type QueryFunc func(id FunctionID) uintptr

// Binder binds a native address to the Go func pointed to by fptr.
// purego.RegisterFunc satisfies it.
type Binder func(fptr any, addr uintptr)

// Resolve looks up a single function address.
func Resolve(query QueryFunc, id FunctionID) (uintptr, bool) {
	addr := query(id)
	return addr, addr != 0
}

// NewTable resolves every known function ID and binds the ones the driver
// provides. Unresolved entries stay nil.
func NewTable(query QueryFunc, bind Binder) *Table {
	t := &Table{}
	for _, id := range FunctionIDs() {
		addr, ok := Resolve(query, id)
		if !ok {
			continue
		}
		bind(t.slot(id), addr)
	}
	return t
}

// Probe is the resolution result for one function ID.
type Probe struct {
	ID        FunctionID `json:"id"`
	Name      string     `json:"name"`
	Mandatory bool       `json:"mandatory"`
	Available bool       `json:"available"`
}

// ProbeAll resolves every function ID without binding anything.
func ProbeAll(query QueryFunc) []Probe {
	ids := FunctionIDs()
	probes := make([]Probe, 0, len(ids))
	for _, id := range ids {
		_, ok := Resolve(query, id)
		probes = append(probes, Probe{
			ID:        id,
			Name:      id.String(),
			Mandatory: id.Mandatory(),
			Available: ok,
		})
	}
	return probes
}
