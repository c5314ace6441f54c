package seed

import "github.com/mrlokans/hadith/internal/entities"

// defaultCollections holds display names for well-known collections. Any
// other collection is registered under its id.
var defaultCollections = map[string]string{
	"bukhari":  "Sahih al-Bukhari",
	"muslim":   "Sahih Muslim",
	"abudawud": "Sunan Abi Dawud",
	"tirmidhi": "Jami` at-Tirmidhi",
	"nasai":    "Sunan an-Nasa'i",
	"ibnmajah": "Sunan Ibn Majah",
	"malik":    "Muwatta Malik",
	"ahmad":    "Musnad Ahmad",
	"nawawi40": "Forty Hadith of an-Nawawi",
}

// collectionFor builds the row registered for a collection id.
func collectionFor(id string) entities.Collection {
	name, ok := defaultCollections[id]
	if !ok {
		name = id
	}
	return entities.Collection{ID: id, Name: name}
}
