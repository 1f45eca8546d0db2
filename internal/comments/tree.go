// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package comments loads, builds and changes a project's comment threads.
// Threads are one level deep: every comment is a root or a reply to one.
package comments

import (
	"slices"

	"github.com/google/uuid"

	"diyverse/internal/models"
)

// Build arranges a flat comment list into root comments with replies.
//
// A comment whose parent is missing from the list is a root. Threads are one
// level deep: a reply to a reply, which Service.Add never writes, is
// attached to its root ancestor with its ParentID left as stored, so on
// well-formed input every reply's ParentID is the ID of the root holding
// it. A parent chain that loops
// without reaching a root makes the comment a root. Roots and each reply
// list are sorted by creation time; ties keep input order. Every input
// comment appears exactly once in the result.
func Build(comments []models.Comment) []models.RootComment {
	index := make(map[uuid.UUID]int, len(comments))
	for i, c := range comments {
		if _, dup := index[c.ID]; !dup {
			index[c.ID] = i
		}
	}

	roots := make([]models.RootComment, 0, len(comments))
	rootPos := make(map[int]int, len(comments))
	parentOf := make([]int, len(comments))
	for i := range comments {
		parentOf[i] = rootAncestor(comments, index, i)
		if parentOf[i] < 0 {
			rootPos[i] = len(roots)
			roots = append(roots, models.RootComment{Comment: comments[i], Replies: []models.Comment{}})
		}
	}

	for i, p := range parentOf {
		if p < 0 {
			continue
		}
		r := &roots[rootPos[p]]
		r.Replies = append(r.Replies, comments[i])
	}

	slices.SortStableFunc(roots, func(a, b models.RootComment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	for i := range roots {
		slices.SortStableFunc(roots[i].Replies, byCreatedAt)
	}
	return roots
}

func byCreatedAt(a, b models.Comment) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

// rootAncestor returns the index of the root comment i belongs under, or -1
// if i is a root itself.
func rootAncestor(comments []models.Comment, index map[uuid.UUID]int, i int) int {
	parent, ok := parentIndex(comments, index, i)
	if !ok {
		return -1
	}

	seen := map[int]bool{i: true}
	for {
		if seen[parent] {
			return -1
		}
		seen[parent] = true

		next, ok := parentIndex(comments, index, parent)
		if !ok {
			return parent
		}
		parent = next
	}
}

// parentIndex returns the index of i's parent if it has one in the list.
func parentIndex(comments []models.Comment, index map[uuid.UUID]int, i int) (int, bool) {
	pid := comments[i].ParentID
	if pid == nil {
		return 0, false
	}
	p, ok := index[*pid]
	return p, ok
}
