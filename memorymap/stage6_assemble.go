package memorymap

// assembleSection implements Stage 6: fold an output section's input
// sections into a Section node, grouping by archive path then object
// path then symbol name, with sizes summing upward from symbol to
// archive. A section with no archive/object attribution (no ELF, or an
// input section the map file never tied to an archive) is grouped under
// a single synthetic archive/object pair named after the section itself.
func assembleSection(ws workingOutputSection) *Section {
	sec := &Section{AbbrevName: abbrevSectionName(ws.Name), Archives: newOrderedMap[*Archive]()}

	for _, is := range ws.InputSections {
		defaultArchive := is.Archive
		defaultObject := is.ObjectFile
		if defaultArchive == "" {
			defaultArchive = ws.Name
		}
		if defaultObject == "" {
			defaultObject = is.Name
		}

		for _, sym := range is.Symbols {
			archivePath := defaultArchive
			objectPath := defaultObject
			if sym.ArchiveOverride != "" {
				archivePath = sym.ArchiveOverride
				objectPath = sym.ObjectOverride
			}

			arc := attachArchive(sec, archivePath)
			obj := attachObject(arc, objectPath)
			attachSymbol(obj, sym.Name, sym.Size)
		}
	}

	rollUpSizes(sec)
	return sec
}

func rollUpSizes(sec *Section) {
	var secTotal uint64
	for _, arc := range sec.Archives.Values() {
		var arcTotal uint64
		for _, obj := range arc.Objects.Values() {
			var objTotal uint64
			for _, sym := range obj.Symbols.Values() {
				objTotal += sym.Size
			}
			obj.Size = objTotal
			arcTotal += objTotal
		}
		arc.Size = arcTotal
		secTotal += arcTotal
	}
	sec.Size = secTotal
}
