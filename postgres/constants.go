// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

const (
	// SQL table names:
	categoryTable    = "category"
	entityTable      = "entity"
	entityMixinTable = "entity_mixin"

	// SQL column names:
	categoryID       = categoryTable + ".id"
	categoryPosition = categoryTable + ".position"
	categoryTerm     = categoryTable + ".term"
	categoryTag      = categoryTable + ".tag"
	categoryData     = categoryTable + ".data"
	entityID         = entityTable + ".id"
	entityLocation   = entityTable + ".location"
	entityKind       = entityTable + ".kind"
	entityOwner      = entityTable + ".owner"
	entityTitle      = entityTable + ".title"
	entitySummary    = entityTable + ".summary"
	entitySource     = entityTable + ".source"
	entityTarget     = entityTable + ".target"
	entityAttributes = entityTable + ".attributes"
	mixinEntity      = entityMixinTable + ".entity_id"
	mixinID          = entityMixinTable + ".mixin"
	mixinPosition    = entityMixinTable + ".position"

	// WHERE clause fragments:
	isCategory      = categoryID + "=$1"
	isEntity        = entityID + "=$1"
	hasThisTerm     = "LOWER(" + categoryTerm + ")=LOWER($1)"
	mixinOfEntity   = mixinEntity + "=" + entityID
	entityIsLink    = entitySource + " IS NOT NULL"
	trimmedLocation = "TRIM(BOTH '/' FROM " + entityLocation + ")"
	trimmedSource   = "TRIM(BOTH '/' FROM " + entitySource + ")"
	trimmedTarget   = "TRIM(BOTH '/' FROM " + entityTarget + ")"
)

// entityColumns are the columns scanned by scanEntity, in order.
var entityColumns = []string{
	entityID,
	entityLocation,
	entityKind,
	entityOwner,
	entityTitle,
	entitySummary,
	entitySource,
	entityTarget,
	entityAttributes,
}
