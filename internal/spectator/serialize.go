package spectator

import (
	"strconv"
	"strings"
)

// The functions in this file render the wire format described in spec
// §6, byte-for-byte grounded on
// original_source/tournament/src/spectator/serialize.rs. Sparse grids
// (pointer slices with nil holes) encode runs of nils as a decimal
// run-length between the serialized non-nil items. No serialized item
// starts with a digit, but a mob entity item ends in its decimal
// variant, so in the entity section a skip count that directly follows
// a mob runs on from that variant's digits.

func writeUint(b *strings.Builder, v uint32) {
	b.WriteString(strconv.FormatUint(uint64(v), 10))
}

func (m dynamicMetadata) serialize(b *strings.Builder) {
	b.WriteString(m.direction)
	if m.liveScore != nil {
		writeUint(b, *m.liveScore)
	}
	if m.invulnerable {
		b.WriteByte('I')
	} else {
		b.WriteByte('V')
	}
}

func (m staticMetadata) serialize(b *strings.Builder) {
	b.WriteString(strconv.Itoa(len(m.username)))
	b.WriteByte('-')
	b.WriteString(m.username)
	writeUint(b, m.highScore)
	b.WriteByte(',')
}

func (m completeMetadata) serialize(b *strings.Builder) {
	m.dynamic.serialize(b)
	if m.isPlayer {
		b.WriteByte('P')
	} else {
		b.WriteByte('M')
	}
	b.WriteString(strconv.Itoa(int(m.variant)))
	if m.player != nil {
		m.player.serialize(b)
	}
}

func serializeEntityDiedList(b *strings.Builder, items []entityDied) {
	for _, it := range items {
		writeUint(b, it.position)
		b.WriteByte(',')
	}
}

func serializeEntityMovedList(b *strings.Builder, items []entityMoved) {
	for _, it := range items {
		writeUint(b, it.start)
		b.WriteByte(',')
		writeUint(b, it.end)
		b.WriteByte(',')
	}
}

func serializeEntitySpawnedList(b *strings.Builder, items []entitySpawned) {
	for _, it := range items {
		writeUint(b, it.position)
		it.metadata.serialize(b)
	}
}

func serializeFoodEatenList(b *strings.Builder, items []foodEaten) {
	for _, it := range items {
		writeUint(b, it.position)
		b.WriteByte(',')
	}
}

func serializeFoodSpawnedList(b *strings.Builder, items []foodSpawned) {
	for _, it := range items {
		writeUint(b, it.position)
		b.WriteString(it.food.String())
	}
}

func serializeMetadataChangedList(b *strings.Builder, items []metadataChanged) {
	for _, it := range items {
		writeUint(b, it.position)
		it.metadata.serialize(b)
	}
}

func serializeDelta(d deltaMessage) string {
	var b strings.Builder
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(d.gameID))
	b.WriteByte('_')

	if len(d.died) > 0 {
		b.WriteByte('a')
		serializeEntityDiedList(&b, d.died)
	}
	if len(d.moved) > 0 {
		b.WriteByte('b')
		serializeEntityMovedList(&b, d.moved)
	}
	if len(d.spawned) > 0 {
		b.WriteByte('c')
		serializeEntitySpawnedList(&b, d.spawned)
	}
	if len(d.foodEaten) > 0 {
		b.WriteByte('d')
		serializeFoodEatenList(&b, d.foodEaten)
	}
	if len(d.foodSpawned) > 0 {
		b.WriteByte('e')
		serializeFoodSpawnedList(&b, d.foodSpawned)
	}
	if len(d.metadataChanged) > 0 {
		b.WriteByte('f')
		serializeMetadataChangedList(&b, d.metadataChanged)
	}

	return b.String()
}

func serializeInitial(m initialMessage) string {
	var b strings.Builder
	b.WriteByte('i')
	b.WriteString(strconv.Itoa(m.gameID))
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(m.width))
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(m.height))
	b.WriteByte('_')

	for _, t := range m.baseTiles {
		b.WriteString(t.String())
	}
	b.WriteByte('|')

	skip := 0
	for _, e := range m.entities {
		if e == nil {
			skip++
			continue
		}
		if skip > 0 {
			b.WriteString(strconv.Itoa(skip))
			skip = 0
		}
		e.serialize(&b)
	}
	if skip > 0 {
		b.WriteString(strconv.Itoa(skip))
	}
	b.WriteByte('|')

	skip = 0
	for _, f := range m.food {
		if f == nil {
			skip++
			continue
		}
		if skip > 0 {
			b.WriteString(strconv.Itoa(skip))
			skip = 0
		}
		b.WriteString(f.String())
	}
	if skip > 0 {
		b.WriteString(strconv.Itoa(skip))
	}

	return b.String()
}

func serializeGameClosed(gameID int) string {
	return "c" + strconv.Itoa(gameID)
}

func serializeLeaderboard(entries []leaderboardEntry) string {
	var b strings.Builder
	b.WriteByte('l')
	for _, e := range entries {
		b.WriteString(strconv.Itoa(e.id))
		b.WriteByte('_')
		b.WriteString(e.username)
		b.WriteByte('_')
		writeUint(&b, e.highScore)
		b.WriteByte(',')
	}
	return b.String()
}
