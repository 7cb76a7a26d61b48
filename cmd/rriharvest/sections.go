package main

import "fmt"

// Run executes the sections command.
func (c *SectionsCmd) Run(deps *Dependencies) error {
	for _, s := range deps.Catalog.Sections {
		fmt.Fprintf(deps.Stdout, "%-12s %-24s %3d categories  %s\n", s.Key, s.Name, s.CategoryCount(), s.PathPrefix)
	}
	return nil
}
