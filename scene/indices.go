// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"goq3bsp/qerr"
)

// BuildIndices resolves the relative references of all polygon and mesh
// faces into absolute vertex indices. Patches and billboards keep an empty
// draw range.
func (m *Merged) BuildIndices() (*Indexed, error) {
	b, err := m.take()
	if err != nil {
		return nil, err
	}
	for i := range b.Faces {
		f := &b.Faces[i]
		if f.Kind != KindPolygon && f.Kind != KindMesh {
			continue
		}
		if !f.MeshVerts.within(len(b.MeshVerts)) {
			return nil, qerr.InFile(qerr.Format("face %d: meshverts %d+%d of %d",
				i, f.MeshVerts.First, f.MeshVerts.Count, len(b.MeshVerts)), b.Name)
		}
		start := len(b.Indices)
		for _, r := range b.MeshVerts[f.MeshVerts.First:f.MeshVerts.End()] {
			idx := f.Vertices.First + int(r)
			if idx < 0 || idx >= len(b.Vertices) {
				return nil, qerr.InFile(qerr.Format("face %d: vertex %d of %d",
					i, idx, len(b.Vertices)), b.Name)
			}
			b.Indices = append(b.Indices, uint32(idx))
		}
		f.Draw = Range{start, len(b.Indices) - start}
	}
	return &Indexed{stage{buffers: b}}, nil
}
