package compute

import "fmt"

// Program is a set of kernel entry points compiled for a device.
type Program struct {
	dev     *Device
	label   string
	entries map[string]bool
}

// Compile builds a program exposing the given entry points.
func (d *Device) Compile(label string, entryPoints ...string) (*Program, error) {
	if len(entryPoints) == 0 {
		return nil, fmt.Errorf("compute: compile %s: no entry points", label)
	}
	entries := make(map[string]bool, len(entryPoints))
	for _, e := range entryPoints {
		if e == "" {
			return nil, fmt.Errorf("compute: compile %s: empty entry point name", label)
		}
		entries[e] = true
	}
	d.log.Debug("compute: program compiled", "program", label, "entry_points", len(entries))
	return &Program{dev: d, label: label, entries: entries}, nil
}

// Pipeline binds an entry point to a fixed work-group size.
type Pipeline struct {
	dev       *Device
	entry     string
	workgroup Size
}

// Pipeline creates a compute pipeline for entry with the given work-group.
func (p *Program) Pipeline(entry string, workgroup Size) (*Pipeline, error) {
	if !p.entries[entry] {
		return nil, fmt.Errorf("%w: %q in program %s", ErrUnknownEntryPoint, entry, p.label)
	}
	if workgroup.X <= 0 || workgroup.Y <= 0 {
		return nil, fmt.Errorf("compute: pipeline %s: invalid work-group %s", entry, workgroup)
	}
	if limit := p.dev.limits.MaxInvocationsPerWorkgroup; workgroup.Count() > limit {
		return nil, fmt.Errorf("%w: %s has %d invocations, limit %d",
			ErrWorkgroupTooLarge, entry, workgroup.Count(), limit)
	}
	return &Pipeline{dev: p.dev, entry: entry, workgroup: workgroup}, nil
}

// Entry returns the pipeline's entry point name.
func (p *Pipeline) Entry() string { return p.entry }

// Workgroup returns the pipeline's work-group size.
func (p *Pipeline) Workgroup() Size { return p.workgroup }

// Dispatch covers domain with work-groups and runs k for every invocation,
// including the padding past domain's edge. It blocks until the device has
// finished.
func (p *Pipeline) Dispatch(domain Size, k Kernel) error {
	if domain.X < 0 || domain.Y < 0 {
		return fmt.Errorf("compute: dispatch %s: negative domain %s", p.entry, domain)
	}
	grid := GridFor(domain, p.workgroup)
	if grid.Count() == 0 {
		return nil
	}
	p.dev.run(p.entry, grid, p.workgroup, k)
	return nil
}
