package mapgen

// Rand is the randomness generation draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// SelectType picks one member of category uniformly at random.
func SelectType(rng Rand, category RoomCategory) (RoomType, error) {
	if category.Len() == 0 {
		return "", &Error{Code: CodeInvalidCategory, Column: -1, Message: "category has no room types"}
	}
	return category.members[rng.Intn(category.Len())], nil
}
