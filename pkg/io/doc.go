// Package io reads and writes diagram documents as JSON or YAML.
//
// # Format
//
// A document has two top-level arrays, nodes and connections:
//
//	{
//	  "nodes": [
//	    {"id": "start", "type": "startEvent", "bounds": {"x": 0, "y": 0, "width": 36, "height": 36}},
//	    {"id": "review", "type": "userTask", "bounds": {"x": 0, "y": 0, "width": 100, "height": 80}}
//	  ],
//	  "connections": [
//	    {"id": "f1", "kind": "sequence", "source": "start", "target": "review"}
//	  ]
//	}
//
// Node fields: id, type (required), name, bounds, parent, host (boundary
// markers) and default (a gateway's default outgoing connection). Connection
// fields: id, kind (sequence, message or association), source, target, name,
// condition and waypoints.
//
// The YAML form uses the same field names.
//
// # Import
//
// [Import] picks the format from the file extension; [Read] takes it
// explicitly. Both validate the decoded diagram (unknown references,
// containment cycles, marker hosts) before returning it.
//
// # Export
//
// [Export] and [Write] are the inverse. Node order and connection order are
// preserved, so a document survives a layout round trip with only geometry
// changed.
package io
