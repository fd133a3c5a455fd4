/*

Fgdb is a content-addressed registry of computational blocks that
records two provenance graphs: a registration-order ancestry graph and
a dataflow graph.

Vocabulary:

- block: atomic registered unit; a function (behavior) or a data
	payload, copied into a content-addressed directory
- identity: string that gets hashed to produce a block's code; built
	from the block's name plus a coarse timestamp and a per-store
	sequence number
- code: hexadecimal sha256 digest of an identity; the block's primary
	key and the name of its directory
- head: short display prefix of a code
- ancestry graph (MG): directed graph recording what was registered,
	in what order; each new block is a child of the cursor
- dataflow graph (OG): directed graph whose edges record one function
	application each, labeled with the function's name; directly
	registered data blocks hang off the OG root
- cursor: code of the most recently registered block
- manifest: per-block system.json record written into the block's
	directory
- snapshot: whole-store checkpoint holding both graphs, the block
	map, the insertion order, the cursor, and the identity sequence

*/
package fgdb
