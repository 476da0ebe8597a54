package generator

import "strings"

const (
	fallbackImage1 = "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=600&h=400&fit=crop"
	fallbackImage2 = "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=600&h=400&fit=crop"
	fallbackImage3 = "https://images.unsplash.com/photo-1567095761054-7a02e69e5c43?w=600&h=400&fit=crop"
)

// fallbackTemplate uses {author} and {title} placeholders plus {cover}.
const fallbackTemplate = `# 千古绝唱！{author}《{title}》背后的深意，读懂的人都哭了

{cover}

当我们谈论中国古典诗词的璀璨明珠时，{author}的《{title}》无疑是其中最耀眼的一颗。这首诗不仅仅是文字的组合，更是情感的结晶，是中华文化的瑰宝。今天，让我们一起走进这首诗的世界，感受其中蕴含的深刻内涵。

## 📖 诗词原文

**《{title}》**
*{author}*

（此处应插入具体诗词内容）

## 🌟 创作背景与时代意义

{author}创作《{title}》的时代背景极为重要。当时的社会环境、政治氛围以及诗人的个人经历，都深深影响着这首诗的创作。通过了解这些背景，我们能够更好地理解诗人的内心世界和创作动机。

这首诗诞生于一个特殊的历史时期，那时的文人墨客们面临着种种人生际遇。{author}作为其中的佼佼者，用独特的视角和深刻的洞察力，为我们留下了这样一首传世佳作。

![配图1](` + fallbackImage1 + `)

## 🎯 逐句深度赏析

每一句诗都是诗人情感的体现，每一个字都承载着深刻的含义。让我们逐句来品味这首诗的精妙之处：

**第一句的妙处在于**其开门见山的表达方式，直接将读者带入到诗人所营造的意境之中。这种写法看似简单，实则蕴含着高超的艺术技巧。

**第二句则进一步深化了主题**，通过具体的意象描绘，让抽象的情感变得具体可感。这种由浅入深的表达方式，正是古典诗词的魅力所在。

## 🌸 重点词语与意象解析

在这首诗中，几个关键词语的运用尤为精妙，它们不仅仅是简单的景物描写，更是情感的载体和精神的寄托。

## 👨‍🎨 诗人生平与创作风格

{author}作为中国古代文学史上的重要人物，其生平经历和创作风格都值得我们深入了解。其诗歌创作不仅数量丰富，而且质量上乘，在文学史上占有重要地位。

![配图2](` + fallbackImage2 + `)

## 🎨 艺术手法与表现技巧

这首诗在艺术表现上有许多值得我们学习和欣赏的地方：

**1. 意境营造**：诗人通过精心选择的意象和巧妙的组合，营造出了一个独特的艺术境界。

**2. 语言运用**：诗中的每一个字都经过精心推敲，既保持了语言的优美，又确保了意思的准确传达。

**3. 情感表达**：诗人通过含蓄而深刻的表达方式，将复杂的情感融入到简洁的诗句中。

## 💭 情感主题与现代意义

《{title}》所表达的情感主题具有永恒的价值，它不仅仅属于那个时代，更属于我们每一个人。在现代社会中，这首诗仍然能够引起我们的共鸣，给我们以启发和思考。

![配图3](` + fallbackImage3 + `)

## 结语

{author}的《{title}》是一首永远读不厌的诗，每一次重读都会有新的感悟和收获。它像一面镜子，映照着我们的内心世界；它像一位老师，教导着我们人生的道理。

让我们在繁忙的现代生活中，偶尔停下脚步，重温这些经典之作，让古典诗词的美好继续滋养我们的心灵。

---

*如果这篇文章让你有所感悟，请点赞转发，让更多人感受到古典诗词的魅力！*

**关注「最美诗词」，每天为你推送最美的诗词赏析！**`

// Fallback builds the fixed article served when the model is unavailable.
// The output depends only on its arguments.
func Fallback(author, title, coverURL string) string {
	// single pass, so placeholders inside author/title are left alone
	r := strings.NewReplacer(
		"{author}", author,
		"{title}", title,
		"{cover}", coverLine(coverURL),
	)
	return r.Replace(fallbackTemplate)
}
