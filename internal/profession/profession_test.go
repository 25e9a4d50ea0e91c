package profession

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickpersak/idle-rpg/internal/progression"
)

func intPtr(i int) *int { return &i }

func testProfession() Profession {
	return New("mining", "Mining", []SkillTask{
		{ID: "mine_copper", Name: "Mine Copper", RequiredLevel: 1, Experience: 10, TimeToComplete: 3000, ResourceID: "copper_ore", ResourceQuantity: 1},
		{ID: "mine_iron", Name: "Mine Iron", RequiredLevel: 15, Experience: 35, TimeToComplete: 5000, ResourceID: "iron_ore", ResourceQuantity: 1},
	})
}

func TestStepIdleUnchanged(t *testing.T) {
	p := testProfession()
	p.TaskProgress = 1200 // stale progress from a cleared task

	res := Step(p, TickMillis)

	assert.False(t, res.Changed)
	assert.Nil(t, res.Loot)
	assert.Equal(t, p, res.Profession)
}

func TestStepPausedKeepsProgress(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(0)
	p.IsPaused = true
	p.TaskProgress = 2500

	res := Step(p, TickMillis)

	assert.False(t, res.Changed)
	assert.Equal(t, 2500, res.Profession.TaskProgress)
}

func TestStepAccumulatesProgress(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(0)

	res := Step(p, TickMillis)

	assert.True(t, res.Changed)
	assert.Nil(t, res.Loot)
	assert.Equal(t, TickMillis, res.Profession.TaskProgress)
	assert.Equal(t, 0, res.Profession.CurrentXP)
}

func TestStepCompletionAwardsXPAndLoot(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(0)
	p.TaskProgress = 2950

	res := Step(p, TickMillis)

	require.NotNil(t, res.Loot)
	assert.Equal(t, "copper_ore", res.Loot.ID)
	assert.Equal(t, int64(1), res.Loot.Quantity)
	assert.Equal(t, 10, res.Profession.CurrentXP)
	assert.Equal(t, 50, res.Profession.TaskProgress)
}

func TestStepMultipleCompletionsInOneDelta(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(0)

	res := Step(p, 7000)

	require.NotNil(t, res.Loot)
	assert.Equal(t, int64(2), res.Loot.Quantity)
	assert.Equal(t, 20, res.Profession.CurrentXP)
	assert.Equal(t, 1000, res.Profession.TaskProgress)
}

func TestStepLevelUpCascades(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(0)
	p.CurrentXP = 95
	p.TaskProgress = 2900

	res := Step(p, TickMillis)

	assert.Equal(t, 2, res.Profession.Level)
	assert.Equal(t, 5, res.Profession.CurrentXP)
	assert.Equal(t, progression.XPForLevel(2), res.Profession.XPToNextLevel)
}

func TestStepClearsDanglingTaskIndex(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(9)
	p.TaskProgress = 500

	res := Step(p, TickMillis)

	assert.True(t, res.Changed)
	assert.Nil(t, res.Profession.ActiveTaskIndex)
	assert.Equal(t, 0, res.Profession.TaskProgress)
	assert.Nil(t, res.Loot)
}

func TestStepClearsUnderLeveledTask(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(1) // requires level 15

	res := Step(p, TickMillis)

	assert.True(t, res.Changed)
	assert.Nil(t, res.Profession.ActiveTaskIndex)
	assert.False(t, res.Profession.IsPaused)
}

func TestStepZeroDurationTreatedAsOneMilli(t *testing.T) {
	p := testProfession()
	p.Tasks[0].TimeToComplete = 0
	p.ActiveTaskIndex = intPtr(0)

	res := Step(p, 3)

	require.NotNil(t, res.Loot)
	assert.Equal(t, int64(3), res.Loot.Quantity)
}

func TestStepDoesNotMutateInput(t *testing.T) {
	p := testProfession()
	p.ActiveTaskIndex = intPtr(0)

	_ = Step(p, 7000)

	assert.Equal(t, 0, p.TaskProgress)
	assert.Equal(t, 0, p.CurrentXP)
}
