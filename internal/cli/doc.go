// Package cli implements the pulseline command-line interface.
//
// # Command Structure
//
// The root command renders the status line; subcommands help set it up:
//
//	pulseline            - Print the status line (host session JSON on stdin)
//	pulseline init       - Create .pulseline.yaml
//	pulseline doctor     - Check config and every data source
//	pulseline settings   - Print the host settings snippet
//	pulseline version    - Print version information
//
// # Rendering
//
// Render loads and validates config, reads the optional session JSON from
// stdin within timeouts.total, wires the sources into a statusline.Composer
// and prints one line. A config error is the only failure: it is printed to
// stderr and the process exits 1 so the host's shell fallback prints the
// bare label instead.
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color, --label, --model) are
// defined on the root command and available to all subcommands.
package cli
