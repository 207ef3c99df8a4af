package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"remake/internal/resolver"
	"remake/internal/trace"
	"remake/internal/typeinfo"
)

var (
	typesSnapshot string
	typesExtract  string
	typesFormat   string
)

func init() {
	typesCmd.Flags().StringVar(&typesSnapshot, "snapshot", "", "type table snapshot to read or write")
	typesCmd.Flags().StringVar(&typesExtract, "extract", "", "front-end type dump to resolve into the snapshot")
	typesCmd.Flags().StringVar(&typesFormat, "format", "pretty", "output format (pretty|json)")
	_ = typesCmd.MarkFlagRequired("snapshot")
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Extract or inspect a type table snapshot",
	Long: `Without --extract, inspects an existing snapshot. With --extract, resolves
the declarations of a front-end type dump into a fresh registry and writes
the snapshot before rendering it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap *typeinfo.Snapshot
		var err error
		if typesExtract != "" {
			tr, trErr := tracerFromFlags(cmd)
			if trErr != nil {
				return trErr
			}
			snap, err = extractSnapshot(tr, typesExtract, typesSnapshot)
		} else {
			snap, err = typeinfo.LoadSnapshot(typesSnapshot)
		}
		if err != nil {
			return err
		}
		switch typesFormat {
		case "pretty":
			renderTypesPretty(cmd.OutOrStdout(), snap)
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", typesFormat)
		}
	},
}

// extractSnapshot resolves every declaration of the dump at dumpPath into a
// fresh registry and persists it to snapshotPath.
func extractSnapshot(tr trace.Tracer, dumpPath, snapshotPath string) (*typeinfo.Snapshot, error) {
	oracle, err := resolver.LoadDump(dumpPath)
	if err != nil {
		return nil, err
	}
	registry := typeinfo.NewRegistry(tr)
	res := resolver.New(oracle, registry, resolver.NewForwardDeclSet(), tr)
	for _, ref := range oracle.Decls() {
		res.Resolve(ref)
	}
	if err := registry.SaveSnapshot(snapshotPath); err != nil {
		return nil, fmt.Errorf("write type snapshot %s: %w", snapshotPath, err)
	}
	return registry.Snapshot(), nil
}

func renderTypesPretty(out io.Writer, snap *typeinfo.Snapshot) {
	sort.Slice(snap.Structs, func(i, j int) bool { return snap.Structs[i].Name < snap.Structs[j].Name })
	sort.Slice(snap.Unions, func(i, j int) bool { return snap.Unions[i].Name < snap.Unions[j].Name })
	sort.Slice(snap.Enums, func(i, j int) bool { return snap.Enums[i].Name < snap.Enums[j].Name })

	fmt.Fprintf(out, "structs: %d, unions: %d, enums: %d, max alignment: %d\n",
		len(snap.Structs), len(snap.Unions), len(snap.Enums), snap.MaxAlignment)
	for _, info := range snap.Structs {
		fmt.Fprintf(out, "struct %s  size=%d align=%d fields=%d  (%s)\n",
			nameOrAnon(info.Name), info.Size, info.Alignment, len(info.Fields), info.FilePath)
	}
	for _, info := range snap.Unions {
		fmt.Fprintf(out, "union %s  size=%d align=%d fields=%d  (%s)\n",
			nameOrAnon(info.Name), info.Size, info.Alignment, len(info.Fields), info.FilePath)
	}
	for _, info := range snap.Enums {
		fmt.Fprintf(out, "enum %s  size=%d entries=%d  (%s)\n",
			nameOrAnon(info.Name), info.Size, len(info.NamesToEntries), info.FilePath)
	}
}

func nameOrAnon(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
