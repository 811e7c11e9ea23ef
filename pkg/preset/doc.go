/*
Package preset loads named tree presets from YAML or JSON files.

A preset file holds a list of presets:

	presets:
	  - name: classic
	    rule: "F[+X][-X]"
	    angle: 20
	    iterations: 5

Documents are validated against an embedded JSON Schema before being decoded,
and missing fields take the library defaults. A built-in set is always
available through Builtin.
*/
package preset
