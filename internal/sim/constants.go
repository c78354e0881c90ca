package sim

const (
	// FieldWidth and FieldHeight fix the play-field size in world units.
	FieldWidth  = 800.0
	FieldHeight = 600.0

	PlayerRadius         = 15.0
	PlayerCollisionWidth = PlayerRadius * 2 // used by the map generator
	PlayerSpeed          = 4.0
	MaxHP                = 10

	InteractionDistance = 35.0
	FenceCooldownMillis = 5000

	ProjectileRadius       = 3.0
	ProjectileSpeed        = 8.0
	NormalProjectileDamage = 1
	ShootCooldownMillis    = 300

	FireballRadius         = 10.0
	FireballSpeed          = ProjectileSpeed * 0.75
	FireballCooldownMillis = 5000
	FireballDamageFactor   = 1.0 / 3.0

	// WallProximityThreshold extends the player radius when deciding whether
	// a projectile owner is standing against the fence it just hit.
	WallProximityThreshold = 5.0

	// spawnOffsetBuffer keeps a freshly fired projectile from overlapping its
	// owner on the spawn tick.
	spawnOffsetBuffer = 2.0

	diagonalFactor = 0.70710678118 // 1/sqrt(2)
)
