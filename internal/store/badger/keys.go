package badger

// Key layout. Entity records live under a type prefix keyed by ID; the
// idx: keys are maintained in the same transaction as the records they
// point at, so an index entry is never observable without its record.
const (
	libraryPrefix = "library:"
	notePrefix    = "note:"

	// Single-value uniqueness indexes: key -> entity ID.
	librarySlugIdxPrefix = "idx:library:slug:" // + ownerID + ":" + slug
	libraryNameIdxPrefix = "idx:library:name:" // + ownerID + ":" + name
	noteSlugIdxPrefix    = "idx:note:slug:"    // + libraryID + ":" + slug
	noteNameIdxPrefix    = "idx:note:name:"    // + libraryID + ":" + name

	// Collection membership indexes: key -> JSON ID list.
	librariesByOwnerPrefix = "idx:libraries:owner:" // + ownerID
	notesByLibraryPrefix   = "idx:notes:library:"   // + libraryID
)

func libraryKey(id string) []byte { return []byte(libraryPrefix + id) }
func noteKey(id string) []byte    { return []byte(notePrefix + id) }

func librarySlugKey(ownerID, slug string) []byte {
	return []byte(librarySlugIdxPrefix + ownerID + ":" + slug)
}

func libraryNameKey(ownerID, name string) []byte {
	return []byte(libraryNameIdxPrefix + ownerID + ":" + name)
}

func noteSlugKey(libraryID, slug string) []byte {
	return []byte(noteSlugIdxPrefix + libraryID + ":" + slug)
}

func noteNameKey(libraryID, name string) []byte {
	return []byte(noteNameIdxPrefix + libraryID + ":" + name)
}

func librariesByOwnerKey(ownerID string) []byte {
	return []byte(librariesByOwnerPrefix + ownerID)
}

func notesByLibraryKey(libraryID string) []byte {
	return []byte(notesByLibraryPrefix + libraryID)
}
