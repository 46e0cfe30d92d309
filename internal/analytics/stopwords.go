// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

// stopWordList is the curated tokenizer stop list: English function
// words, conversational filler scraped from forum posts, and generic
// finance vocabulary that carries no trend signal on a finance feed.
var stopWordList = []string{
	"does", "did", "day", "lot", "bro", "lol", "thing", "things", "yeah", "long", "post",
	"action", "work", "doing", "kind", "let", "point", "home", "life", "message", "told",
	"automatically", "subreddit", "contact", "que", "questions", "question", "person", "man",
	"comment", "compose", "performed", "days", "started", "having", "the", "a", "an", "and", "or",
	"but", "in", "on", "at", "to", "for", "of", "with", "by", "is", "are", "was", "were", "be",
	"been", "being", "this", "that", "these", "those", "it", "its", "it's", "i", "you", "he",
	"she", "we", "they", "my", "your", "his", "her", "our", "their", "me", "him", "us", "them",
	"what", "which", "who", "whom", "whose", "where", "when", "why", "how", "all", "any", "both",
	"each", "few", "more", "most", "other", "some", "such", "no", "nor", "not", "only", "own",
	"same", "so", "than", "too", "very", "s", "t", "can", "will", "just", "don", "should", "now",
	"d", "ll", "m", "o", "re", "ve", "y", "ain", "aren", "couldn", "didn", "doesn", "hadn",
	"hasn", "haven", "isn", "ma", "mightn", "mustn", "needn", "shan", "shouldn", "wasn", "weren",
	"won", "wouldn", "$", "http", "https", "com", "www", "has", "have", "people", "would", "know",
	"about", "think", "even", "one", "also", "into", "could", "out", "there", "had", "from",
	"beacuse", "time", "above", "across", "after", "afterwards", "again", "against", "almost",
	"alone", "along", "already", "although", "always", "am", "among", "amongst", "amoungst",
	"amount", "another", "anyhow", "anyone", "anything", "anyway", "anywhere", "around", "as",
	"back", "became", "because", "become", "becomes", "becoming", "before", "beforehand",
	"behind", "below", "beside", "besides", "between", "beyond", "bill", "bottom", "call",
	"cannot", "cant", "co", "computer", "con", "couldnt", "cry", "de", "describe", "detail", "do",
	"done", "down", "due", "during", "eg", "eight", "either", "eleven", "else", "elsewhere",
	"empty", "enough", "etc", "ever", "every", "everyone", "everything", "everywhere", "except",
	"fifteen", "fifty", "fill", "find", "fire", "first", "five", "former", "formerly", "forty",
	"found", "four", "front", "full", "further", "get", "give", "go", "hasnt", "hence", "here",
	"hereafter", "hereby", "herein", "hereupon", "hers", "herself", "himself", "however",
	"hundred", "ie", "if", "inc", "indeed", "interest", "itself", "keep", "last", "latter",
	"latterly", "least", "less", "ltd", "made", "many", "may", "meanwhile", "might", "mill",
	"mine", "moreover", "mostly", "move", "much", "must", "myself", "name", "namely", "neither",
	"never", "nevertheless", "next", "nine", "nobody", "none", "noone", "nothing", "nowhere",
	"off", "often", "once", "onto", "others", "otherwise", "ours", "ourselves", "over", "part",
	"per", "perhaps", "please", "put", "rather", "see", "seem", "seemed", "seeming", "seems",
	"serious", "several", "show", "side", "since", "sincere", "six", "sixty", "somehow",
	"someone", "something", "sometime", "sometimes", "somewhere", "still", "system", "take",
	"ten", "themselves", "then", "thence", "thereafter", "thereby", "therefore", "therein",
	"thereupon", "thick", "thin", "third", "though", "three", "through", "throughout", "thru",
	"thus", "together", "top", "toward", "towards", "twelve", "twenty", "two", "un", "under",
	"until", "up", "upon", "via", "well", "whatever", "whence", "whenever", "whereafter",
	"whereas", "whereby", "wherein", "whereupon", "wherever", "whether", "while", "whither",
	"whoever", "whole", "within", "without", "yet", "yours", "yourself", "yourselves", "make",
	"way", "going", "new", "buy", "need", "really", "year", "years", "nbsp", "want", "like",
	"use", "said", "says", "according", "accordingly", "added", "additionally", "altogether",
	"anyways", "appear", "appreciate", "appropriate", "aside", "ask", "asking", "associated",
	"available", "away", "basically", "begins", "believe", "better", "brief", "briefly", "came",
	"certain", "certainly", "clearly", "come", "comes", "completely", "concerning",
	"consequently", "consider", "considering", "contain", "containing", "contains",
	"corresponding", "course", "currently", "definitely", "described", "despite", "downwards",
	"easily", "entirely", "especially", "essentially", "everybody", "exactly", "example", "fact",
	"far", "fifth", "finally", "followed", "following", "follows", "forth", "furthermore",
	"generally", "gets", "getting", "given", "gives", "goes", "gone", "got", "gotten",
	"greetings", "hardly", "hello", "help", "hi", "hither", "hopefully", "howbeit", "immediate",
	"immediately", "important", "indicate", "indicated", "indicates", "inner", "insofar",
	"instead", "inward", "it'd", "it'll", "keeps", "kept", "knows", "largely", "lastly", "lately",
	"later", "lest", "let's", "liked", "likely", "look", "looking", "looks", "mainly", "maybe",
	"mean", "means", "meantime", "merely", "near", "nearly", "necessary", "needs", "non",
	"nonetheless", "normally", "novel", "nowadays", "obviously", "oh", "ok", "okay", "old",
	"ones", "outside", "overall", "particular", "particularly", "past", "placed", "plus",
	"possible", "presumably", "probably", "provides", "quite", "reasonably", "recently",
	"regarding", "regardless", "regards", "relatively", "respectively", "right", "saw", "say",
	"saying", "second", "secondly", "seeing", "seen", "self", "selves", "sensible", "sent",
	"seriously", "seven", "shall", "shed", "shes", "showed", "shown", "shows", "significant",
	"significantly", "similar", "similarly", "slightly", "somebody", "somewhat", "soon", "sorry",
	"specified", "specify", "specifying", "sub", "substantially", "successfully", "sufficiently",
	"sure", "taken", "taking", "tell", "tends", "thank", "thanks", "thanx", "thats", "theirs",
	"theres", "thorough", "thoroughly", "took", "tried", "tries", "truly", "try", "trying",
	"twice", "unfortunately", "unless", "unlikely", "unto", "useful", "usefully", "usefulness",
	"uses", "using", "usually", "value", "various", "viz", "wants", "wasn't", "we'd", "we'll",
	"we're", "we've", "welcome", "went", "weren't", "what's", "who's", "widely", "willing",
	"wish", "won't", "wonder", "wouldn't", "yes", "you'd", "you'll", "you're", "you've", "market",
	"markets", "price", "prices", "stock", "stocks", "share", "shares", "trade", "trading",
	"invest", "investment", "investor", "investors", "company", "companies", "business",
	"financial", "finance", "economy", "economic", "money", "cash", "currency", "dollar",
	"dollars", "euro", "pound", "yen", "capital", "asset", "assets", "fund", "funds", "bank",
	"banks", "banking", "rate", "rates", "growth", "profit", "profits", "loss", "losses",
	"revenue", "income", "expense", "cost", "costs", "valuation", "worth", "return", "returns",
	"risk", "risks", "volatility", "volatile", "liquidity", "credit", "debt", "loan", "loans",
	"bond", "bonds", "security", "securities", "index", "indices", "exchange", "sector",
	"industry", "global", "world", "international", "domestic", "foreign", "local", "national",
	"federal", "government", "central", "policy", "policies", "regulation", "regulatory", "law",
	"laws", "tax", "taxes", "inflation", "deflation", "recession", "depression", "crisis",
	"bubble", "cycle", "trend", "trends", "analysis", "analyst", "analysts", "report", "reports",
	"data", "information", "news", "update", "updates", "today", "yesterday", "tomorrow", "week",
	"weeks", "month", "months", "times", "period", "periods", "date", "dates", "current",
	"recent", "future", "potential", "potentially", "possibly", "definite", "actual", "actually",
	"real", "true", "false", "facts", "figure", "figures", "number", "numbers", "amounts",
	"total", "totals", "sum", "average", "median", "high", "higher", "highest", "low", "lower",
	"lowest", "big", "bigger", "biggest", "small", "smaller", "smallest", "large", "larger",
	"largest", "major", "minor", "insignificant", "unimportant", "good", "best", "bad", "worse",
	"worst", "positive", "negative", "neutral", "bullish", "bearish", "optimistic", "pessimistic",
	"strong", "stronger", "strongest", "weak", "weaker", "weakest", "rise", "rising", "fall",
	"falling", "increase", "increasing", "decrease", "decreasing", "gain", "gaining", "lose",
	"losing", "win", "winning", "success", "successful", "fail", "failure", "failed", "problem",
	"problems", "issue", "issues", "challenge", "challenges", "opportunity", "opportunities",
	"threat", "threats", "advantage", "disadvantage", "benefit", "benefits", "drawback",
	"drawbacks", "pro", "cons", "reason", "reasons", "cause", "causes", "effect", "effects",
	"result", "results", "impact", "impacts", "influence", "influences",
}

var stopWords = make(map[string]struct{}, len(stopWordList))

func init() {
	for _, w := range stopWordList {
		stopWords[w] = struct{}{}
	}
}
